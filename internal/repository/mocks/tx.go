package mocks

import (
	"context"

	"assetreg/internal/repository"
)

// StubTx satisfies repository.Tx without a database: it hands the configured
// stores straight to the callback. Service tests assert against the mock
// repositories inside Stores.
type StubTx struct {
	Stores repository.Stores
	// Err, when set, is returned without invoking the callback.
	Err error
}

func (t *StubTx) RunInTx(_ context.Context, fn func(s repository.Stores) error) error {
	if t.Err != nil {
		return t.Err
	}
	return fn(t.Stores)
}
