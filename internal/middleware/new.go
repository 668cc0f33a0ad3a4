package middleware

import (
	"notify-srv/pkg/log"
	"notify-srv/pkg/scope"
)

type Middleware struct {
	l        log.Logger
	verifier scope.Verifier
}

func New(l log.Logger, verifier scope.Verifier) Middleware {
	return Middleware{
		l:        l,
		verifier: verifier,
	}
}
