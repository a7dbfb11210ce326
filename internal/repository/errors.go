package repository

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sui-chat/api/internal/model"
)

// unavailableSignatures are substrings seen in driver errors when the cluster
// cannot be reached or the TLS handshake fails.
var unavailableSignatures = []string{
	"SSL",
	"TLS",
	"x509",
	"handshake",
	"connection refused",
	"no reachable servers",
	"server selection",
}

// Classify turns connectivity failures into *model.StoreUnavailableError and
// leaves every other error untouched.
func Classify(err error) error {
	if err == nil || model.IsStoreUnavailable(err) {
		return err
	}
	if IsUnavailable(err) {
		return &model.StoreUnavailableError{Err: err}
	}
	return err
}

func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if model.IsStoreUnavailable(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}

	msg := err.Error()
	for _, sig := range unavailableSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// Fail classifies err and drops db's cached client when the store is
// unreachable. A failure caused by the caller's own context ending leaves the
// shared client alone.
func Fail(ctx context.Context, db Database, err error) error {
	err = Classify(err)
	if model.IsStoreUnavailable(err) && ctx.Err() == nil {
		db.Invalidate()
	}
	return err
}
