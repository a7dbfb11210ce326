package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sui-chat/api/internal/observability"
	"github.com/sui-chat/api/internal/repository"
)

var credentials = regexp.MustCompile(`:[^:@]+@`)

// maskURI hides the password part of a connection string.
func maskURI(uri string) string {
	return credentials.ReplaceAllString(uri, ":****@")
}

// connectionHint suggests a fix for common connection failures.
func connectionHint(msg string) string {
	switch {
	case strings.Contains(msg, "authentication failed"), strings.Contains(msg, "bad auth"):
		return "Check username and password in connection string"
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "lookup"):
		return "Check cluster hostname in connection string"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"), strings.Contains(msg, "connection refused"):
		return "Check network access settings - ensure the server IP is allowed to reach the cluster"
	case strings.Contains(msg, "SSL"), strings.Contains(msg, "TLS"), strings.Contains(msg, "tls"), strings.Contains(msg, "x509"):
		return "SSL/TLS connection issue - check cluster network settings"
	}
	return ""
}

// Diagnostics dials a throwaway client to report whether the database is
// reachable. It never touches the shared connection.
type Diagnostics struct {
	URI      string
	Database string
}

func NewDiagnostics(uri, database string) *Diagnostics {
	return &Diagnostics{URI: uri, Database: database}
}

func (d *Diagnostics) TestConnection(w http.ResponseWriter, r *http.Request) {
	if d.URI == "" {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "MONGODB_URI not configured",
			"message": "MONGODB_URI environment variable is not set",
		})
		return
	}

	log := observability.GetLogger(r.Context()).With(zap.String("uri", maskURI(d.URI)))
	log.Info("testing mongodb connection")

	connectTime, collections, err := d.probe(r.Context())
	if err != nil {
		log.Error("mongodb connection test failed", zap.Error(err))

		details := map[string]any{
			"success":          false,
			"error":            "MongoDB connection failed",
			"message":          err.Error(),
			"errorType":        fmt.Sprintf("%T", errors.Unwrap(err)),
			"connectionString": maskURI(d.URI),
		}
		var ce mongo.CommandError
		if errors.As(err, &ce) {
			details["errorCode"] = ce.Code
		}
		if hint := connectionHint(err.Error()); hint != "" {
			details["hint"] = hint
		}
		writeJSON(w, http.StatusInternalServerError, details)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "MongoDB connection successful",
		"connectTime": fmt.Sprintf("%dms", connectTime.Milliseconds()),
		"database":    d.Database,
		"collections": collections,
	})
}

func (d *Diagnostics) probe(ctx context.Context) (time.Duration, []string, error) {
	start := time.Now()
	client, err := mongo.Connect(ctx, repository.ClientOptions(d.URI))
	if err != nil {
		return 0, nil, fmt.Errorf("connect: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	db := client.Database(d.Database)
	if err := db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return 0, nil, fmt.Errorf("ping: %w", err)
	}
	connectTime := time.Since(start)

	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return 0, nil, fmt.Errorf("list collections: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return connectTime, names, nil
}
