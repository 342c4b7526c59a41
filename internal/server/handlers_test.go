package server

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/eternalApril/keyfile/internal/logger"
	"github.com/eternalApril/keyfile/internal/resp"
	"github.com/eternalApril/keyfile/internal/storage"
)

// setupEngine creates a fresh engine with a clean store for each test
func setupEngine(t *testing.T) (*Engine, string) {
	t.Helper()

	log, err := logger.New("debug", "console")
	if err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(t.TempDir(), "settings.cfg")
	return NewEngine(storage.New(log), file, log), file
}

// helper to construct a RESP command request
func makeCommand(_ string, args ...string) []resp.Value {
	vals := make([]resp.Value, len(args))
	for i, arg := range args {
		vals[i] = resp.MakeBulkString(arg)
	}
	return vals
}

func TestPing(t *testing.T) {
	e, _ := setupEngine(t)

	tests := []struct {
		name     string
		args     []string
		wantType byte
		wantStr  string
	}{
		{"Simple PING", []string{}, resp.TypeSimpleString, "PONG"},
		{"PING with message", []string{"Hello"}, resp.TypeBulkString, "Hello"},
		{"PING too many args", []string{"a", "b"}, resp.TypeError, string(resp.MakeErrorWrongNumberOfArguments("ping").String)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Execute("PING", makeCommand("PING", tt.args...))
			if res.Type != tt.wantType {
				t.Errorf("got type %v, want %v", res.Type, tt.wantType)
			}

			got := string(res.String)
			if got != tt.wantStr {
				t.Errorf("got %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestBasicSetGet(t *testing.T) {
	e, _ := setupEngine(t)

	// GET missing key
	res := e.Execute("GET", makeCommand("GET", "volume"))
	if !res.IsNull {
		t.Errorf("expected null for missing key, got %v", res.Type)
	}

	// GET must not register anything
	res = e.Execute("LEN", makeCommand("LEN", "volume"))
	if res.Integer != 0 {
		t.Errorf("GET registered a setting, LEN = %d", res.Integer)
	}

	// SET returns the stored value
	res = e.Execute("SET", makeCommand("SET", "volume", "0.750"))
	if string(res.String) != "0.75" {
		t.Errorf("expected 0.75, got %s", res.String)
	}

	res = e.Execute("get", makeCommand("GET", "volume"))
	if string(res.String) != "0.75" {
		t.Errorf("expected 0.75, got %s", res.String)
	}
}

func TestSetIndexGrowsList(t *testing.T) {
	e, _ := setupEngine(t)

	e.Execute("SET", makeCommand("SET", "k", "x", "3"))

	res := e.Execute("LEN", makeCommand("LEN", "k"))
	if res.Integer != 4 {
		t.Errorf("expected 4 slots, got %d", res.Integer)
	}

	tests := []struct {
		index string
		want  string
	}{
		{"0", "unset"},
		{"2", "unset"},
		{"3", "string"},
		{"4", "none"},
	}
	for _, tt := range tests {
		res := e.Execute("TYPE", makeCommand("TYPE", "k", tt.index))
		if string(res.String) != tt.want {
			t.Errorf("TYPE k %s = %q, want %q", tt.index, res.String, tt.want)
		}
	}

	// gap slot accepts a numeric default
	res = e.Execute("GETDEF", makeCommand("GETDEF", "k", "0", "0"))
	if res.Type != resp.TypeBulkString || string(res.String) != "0" {
		t.Errorf("GETDEF on gap = %v %q", res.Type, res.String)
	}
	res = e.Execute("TYPE", makeCommand("TYPE", "k", "0"))
	if string(res.String) != "number" {
		t.Errorf("gap was not registered, TYPE = %q", res.String)
	}
}

func TestGetDefault(t *testing.T) {
	e, _ := setupEngine(t)

	res := e.Execute("GETDEF", makeCommand("GETDEF", "missing", "42"))
	if string(res.String) != "42" {
		t.Errorf("expected 42, got %q", res.String)
	}

	// first default sticks
	res = e.Execute("GETDEF", makeCommand("GETDEF", "missing", "99"))
	if string(res.String) != "42" {
		t.Errorf("expected 42, got %q", res.String)
	}

	// requesting a string default on a number slot
	res = e.Execute("GETDEF", makeCommand("GETDEF", "missing", "word"))
	if res.Type != resp.TypeError || !strings.HasPrefix(string(res.String), "WRONGTYPE") {
		t.Errorf("expected WRONGTYPE error, got %v %q", res.Type, res.String)
	}
}

func TestArgumentErrors(t *testing.T) {
	e, _ := setupEngine(t)

	tests := []struct {
		name string
		cmd  string
		args []string
	}{
		{"GET no args", "GET", nil},
		{"GET bad index", "GET", []string{"k", "-1"}},
		{"SET one arg", "SET", []string{"k"}},
		{"SET bad index", "SET", []string{"k", "v", "one"}},
		{"GETDEF bad index", "GETDEF", []string{"k", "v", "1.5"}},
		{"SET max int index", "SET", []string{"k", "v", "9223372036854775807"}},
		{"SET index past slot limit", "SET", []string{"k", "v", strconv.Itoa(storage.MaxSlots)}},
		{"GETDEF index past slot limit", "GETDEF", []string{"k", "v", "50000000"}},
		{"LEN two args", "LEN", []string{"a", "b"}},
		{"KEYS with pattern", "KEYS", []string{"*"}},
		{"TYPE bad index", "TYPE", []string{"k", "x"}},
		{"Unknown command", "FLUSHALL", nil},
		{"COMMAND bad subcommand", "COMMAND", []string{"INFO"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Execute(tt.cmd, makeCommand(tt.cmd, tt.args...))
			if res.Type != resp.TypeError {
				t.Errorf("expected error, got %v %q", res.Type, res.String)
			}
		})
	}

	res := e.Execute("KEYS", nil)
	if len(res.Array) != 0 {
		t.Errorf("invalid commands registered settings: %v", res.Array)
	}
}

func TestKeys(t *testing.T) {
	e, _ := setupEngine(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		e.Execute("SET", makeCommand("SET", name, "1"))
	}

	res := e.Execute("KEYS", nil)
	var got []string
	for _, v := range res.Array {
		got = append(got, string(v.String))
	}
	if strings.Join(got, ",") != "alpha,mid,zeta" {
		t.Errorf("KEYS = %v", got)
	}
}

func TestSaveLoad(t *testing.T) {
	e, file := setupEngine(t)

	e.Execute("SET", makeCommand("SET", "waypoints", "1"))
	e.Execute("SET", makeCommand("SET", "waypoints", "north", "1"))

	res := e.Execute("SAVE", nil)
	if string(res.String) != "OK" {
		t.Fatalf("SAVE failed: %q", res.String)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "waypoints = 1 north\n" {
		t.Errorf("unexpected file content %q", data)
	}

	if err := os.WriteFile(file, []byte("waypoints = 5\nlives = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	res = e.Execute("LOAD", nil)
	if string(res.String) != "OK" {
		t.Fatalf("LOAD failed: %q", res.String)
	}

	res = e.Execute("LEN", makeCommand("LEN", "waypoints"))
	if res.Integer != 1 {
		t.Errorf("LOAD did not replace list, LEN = %d", res.Integer)
	}
	res = e.Execute("GET", makeCommand("GET", "lives"))
	if string(res.String) != "3" {
		t.Errorf("expected lives 3, got %q", res.String)
	}
}

func TestSaveWithoutFile(t *testing.T) {
	e := NewEngine(storage.New(nil), "", nil)

	for _, name := range []string{"SAVE", "LOAD"} {
		res := e.Execute(name, nil)
		if res.Type != resp.TypeError {
			t.Errorf("%s without file should fail, got %q", name, res.String)
		}
	}
}

func TestCommandDocs(t *testing.T) {
	e, _ := setupEngine(t)

	res := e.Execute("COMMAND", makeCommand("COMMAND", "COUNT"))
	if res.Integer != int64(len(commandRegistry)) {
		t.Errorf("COMMAND COUNT = %d", res.Integer)
	}

	res = e.Execute("COMMAND", nil)
	if len(res.Array) != len(commandRegistry) {
		t.Errorf("COMMAND returned %d entries", len(res.Array))
	}

	res = e.Execute("COMMAND", makeCommand("COMMAND", "DOCS", "set", "nope"))
	if len(res.Array) != 2 || string(res.Array[0].String) != "set" {
		t.Errorf("COMMAND DOCS set = %+v", res.Array)
	}

	for name := range commandRegistry {
		if _, ok := commandDocsRegistry[name]; !ok {
			t.Errorf("command %s has no docs", name)
		}
		if _, ok := e.commands[name]; !ok {
			t.Errorf("command %s is documented but not registered", name)
		}
	}
}
