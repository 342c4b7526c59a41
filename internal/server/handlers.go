package server

import (
	"errors"
	"strconv"

	"github.com/eternalApril/keyfile/internal/resp"
	"github.com/eternalApril/keyfile/internal/storage"
	"github.com/eternalApril/keyfile/internal/value"
)

var errInvalidIndex = resp.MakeError("ERR index is not a non-negative integer")

// indexArg parses the optional slot index at position pos
func indexArg(args []resp.Value, pos int) (int, bool) {
	if len(args) <= pos {
		return 0, true
	}

	idx, err := strconv.Atoi(string(args[pos].String))
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// storeError maps store failures to RESP errors
func storeError(err error) resp.Value {
	var mismatch *storage.TypeMismatchError
	if errors.As(err, &mismatch) {
		return resp.MakeError("WRONGTYPE " + mismatch.Error())
	}
	return resp.MakeError("ERR " + err.Error())
}

func ping(req *request) resp.Value {
	switch len(req.args) {
	case 0:
		return resp.MakeSimpleString("PONG")
	case 1:
		return resp.MakeBulkString(string(req.args[0].String))
	default:
		return resp.MakeErrorWrongNumberOfArguments("ping")
	}
}

// get returns a slot without registering a default: GET name [index]
func get(req *request) resp.Value {
	if len(req.args) < 1 || len(req.args) > 2 {
		return resp.MakeErrorWrongNumberOfArguments("get")
	}

	idx, ok := indexArg(req.args, 1)
	if !ok {
		return errInvalidIndex
	}

	v, found := req.store.Lookup(string(req.args[0].String), idx)
	if !found {
		return resp.MakeNilBulkString()
	}
	return resp.MakeBulkString(v.Text())
}

// getDefault reads with a default: GETDEF name default [index].
// The default is typed the same way as a file token
func getDefault(req *request) resp.Value {
	if len(req.args) < 2 || len(req.args) > 3 {
		return resp.MakeErrorWrongNumberOfArguments("getdef")
	}

	idx, ok := indexArg(req.args, 2)
	if !ok {
		return errInvalidIndex
	}

	def := value.Parse(string(req.args[1].String))
	v, err := req.store.GetValue(string(req.args[0].String), def, idx)
	if err != nil {
		return storeError(err)
	}
	return resp.MakeBulkString(v.Text())
}

// set writes a slot: SET name value [index]
func set(req *request) resp.Value {
	if len(req.args) < 2 || len(req.args) > 3 {
		return resp.MakeErrorWrongNumberOfArguments("set")
	}

	idx, ok := indexArg(req.args, 2)
	if !ok {
		return errInvalidIndex
	}

	v, err := req.store.SetValue(string(req.args[0].String), value.Parse(string(req.args[1].String)), idx)
	if err != nil {
		return storeError(err)
	}
	return resp.MakeBulkString(v.Text())
}

func length(req *request) resp.Value {
	if len(req.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("len")
	}
	return resp.MakeInteger(int64(req.store.Len(string(req.args[0].String))))
}

// kind reports the tag of a slot: TYPE name [index]
func kind(req *request) resp.Value {
	if len(req.args) < 1 || len(req.args) > 2 {
		return resp.MakeErrorWrongNumberOfArguments("type")
	}

	idx, ok := indexArg(req.args, 1)
	if !ok {
		return errInvalidIndex
	}

	values := req.store.Values(string(req.args[0].String))
	if idx >= len(values) {
		return resp.MakeSimpleString("none")
	}
	return resp.MakeSimpleString(values[idx].Kind.String())
}

func keys(req *request) resp.Value {
	if len(req.args) != 0 {
		return resp.MakeErrorWrongNumberOfArguments("keys")
	}

	names := req.store.Names()
	vals := make([]resp.Value, len(names))
	for i, name := range names {
		vals[i] = resp.MakeBulkString(name)
	}
	return resp.MakeArray(vals)
}
