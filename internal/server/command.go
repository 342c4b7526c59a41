package server

import (
	"github.com/eternalApril/keyfile/internal/resp"
	"github.com/eternalApril/keyfile/internal/storage"
)

// request carries the arguments of one command (without its name)
type request struct {
	args  []resp.Value
	store *storage.Store
}

type command interface {
	execute(req *request) resp.Value
}

type commandFunc func(req *request) resp.Value

func (c commandFunc) execute(req *request) resp.Value {
	return c(req)
}
