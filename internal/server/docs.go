package server

import (
	"slices"
	"strings"

	"github.com/eternalApril/keyfile/internal/resp"
)

type commandMetadata struct {
	arity    int      // Arity includes the command name itself
	flags    []string // readonly, write, fast, etc
	firstKey int      // 1-based index of the first key
	lastKey  int      // 1-based index of the last key
	step     int      // Step count for finding keys
}

var commandRegistry = map[string]commandMetadata{
	"PING":    {-1, []string{"fast", "stale"}, 0, 0, 0},
	"GET":     {-2, []string{"readonly", "fast"}, 1, 1, 1},
	"GETDEF":  {-3, []string{"write", "fast"}, 1, 1, 1},
	"SET":     {-3, []string{"write", "fast"}, 1, 1, 1},
	"LEN":     {2, []string{"readonly", "fast"}, 1, 1, 1},
	"TYPE":    {-2, []string{"readonly", "fast"}, 1, 1, 1},
	"KEYS":    {1, []string{"readonly"}, 0, 0, 0},
	"SAVE":    {1, []string{"admin"}, 0, 0, 0},
	"LOAD":    {1, []string{"admin", "write"}, 0, 0, 0},
	"COMMAND": {-1, []string{"loading", "stale"}, 0, 0, 0},
}

// commandDoc stores a description for the command
type commandDoc struct {
	summary    string
	complexity string
	group      string
}

// commandDocsRegistry documentation registry
var commandDocsRegistry = map[string]commandDoc{
	"PING": {
		summary:    "Ping the server.",
		complexity: "O(1)",
		group:      "connection",
	},
	"GET": {
		summary:    "Get one slot of a setting without registering it.",
		complexity: "O(1)",
		group:      "settings",
	},
	"GETDEF": {
		summary:    "Get one slot of a setting, storing the default when it is empty.",
		complexity: "O(N) where N is the growth of the value list.",
		group:      "settings",
	},
	"SET": {
		summary:    "Set one slot of a setting.",
		complexity: "O(N) where N is the growth of the value list.",
		group:      "settings",
	},
	"LEN": {
		summary:    "Get the number of slots of a setting.",
		complexity: "O(1)",
		group:      "settings",
	},
	"TYPE": {
		summary:    "Get the kind of one slot of a setting.",
		complexity: "O(N) where N is the number of slots.",
		group:      "settings",
	},
	"KEYS": {
		summary:    "List all setting names.",
		complexity: "O(N log N) where N is the number of settings.",
		group:      "settings",
	},
	"SAVE": {
		summary:    "Write the settings file.",
		complexity: "O(N) where N is the number of values.",
		group:      "server",
	},
	"LOAD": {
		summary:    "Merge the settings file into memory.",
		complexity: "O(N) where N is the number of values.",
		group:      "server",
	},
	"COMMAND": {
		summary:    "Get array of command details.",
		complexity: "O(N) where N is the number of commands to look up.",
		group:      "server",
	},
}

// cmd implements COMMAND, COMMAND COUNT and COMMAND DOCS [name...]
func cmd(req *request) resp.Value {
	if len(req.args) == 0 {
		return getAllCommands()
	}

	switch strings.ToUpper(string(req.args[0].String)) {
	case "COUNT":
		return resp.MakeInteger(int64(len(commandRegistry)))
	case "DOCS":
		return getCommandsDocs(req.args[1:])
	default:
		return resp.MakeError("ERR unknown COMMAND subcommand")
	}
}

func makeFlagsArray(flags []string) resp.Value {
	vals := make([]resp.Value, len(flags))
	for i, f := range flags {
		vals[i] = resp.MakeSimpleString(f)
	}
	return resp.MakeArray(vals)
}

func makeInfoCmdArray(name string) []resp.Value {
	meta := commandRegistry[name]
	return []resp.Value{
		resp.MakeBulkString(strings.ToLower(name)),
		resp.MakeInteger(int64(meta.arity)),
		makeFlagsArray(meta.flags),
		resp.MakeInteger(int64(meta.firstKey)),
		resp.MakeInteger(int64(meta.lastKey)),
		resp.MakeInteger(int64(meta.step)),
	}
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func getAllCommands() resp.Value {
	cmdArray := make([]resp.Value, 0, len(commandRegistry))
	for _, name := range sortedNames(commandRegistry) {
		cmdArray = append(cmdArray, resp.MakeArray(makeInfoCmdArray(name)))
	}
	return resp.MakeArray(cmdArray)
}

// getCommandsDocs returns documentation for specified commands or all commands
// Format: [Name, [summary, val, group, val, complexity, val], Name, [...]]
func getCommandsDocs(args []resp.Value) resp.Value {
	var targets []string

	if len(args) == 0 {
		targets = sortedNames(commandDocsRegistry)
	} else {
		targets = make([]string, 0, len(args))
		for _, arg := range args {
			targets = append(targets, strings.ToUpper(string(arg.String)))
		}
	}

	result := make([]resp.Value, 0, len(targets)*2)

	for _, name := range targets {
		doc, ok := commandDocsRegistry[name]
		if !ok {
			continue
		}

		result = append(result, resp.MakeBulkString(strings.ToLower(name)))

		props := []resp.Value{
			resp.MakeBulkString("summary"),
			resp.MakeBulkString(doc.summary),
			resp.MakeBulkString("group"),
			resp.MakeBulkString(doc.group),
			resp.MakeBulkString("complexity"),
			resp.MakeBulkString(doc.complexity),
		}

		result = append(result, resp.MakeArray(props))
	}

	return resp.MakeArray(result)
}
