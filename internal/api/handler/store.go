package handler

import (
	"context"
	"database/sql"
	"net/http"
	"recipe_memo/internal/common"
	"recipe_memo/internal/common/dbx"
)

// ConnProvider hands out one store connection per request.
type ConnProvider interface {
	Acquire(ctx context.Context) (*sql.Conn, error)
}

// storeHandlerFunc is a handler that works on the connection held for its
// request.
type storeHandlerFunc func(w http.ResponseWriter, r *http.Request, db dbx.Conn)

// withStore acquires a connection before fn runs and releases it when fn
// returns, however it returns.
func withStore(store ConnProvider, fn storeHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := store.Acquire(r.Context())
		if err != nil {
			common.RespondWithDomainError(w, r, err)
			return
		}
		defer conn.Close()

		fn(w, r, conn)
	}
}
