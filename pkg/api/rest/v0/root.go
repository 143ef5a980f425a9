package v0_rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meower-media/notifications/pkg/db"
	"github.com/meower-media/notifications/pkg/rdb"
)

func RootRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", root)
	r.Get("/status", getStatus)

	return r
}

func root(w http.ResponseWriter, r *http.Request) {
	returnData(w, http.StatusOK, BaseResp{})
}

func getStatus(w http.ResponseWriter, r *http.Request) {
	var resp StatusResp
	if db.Client != nil {
		resp.Mongo = db.Client.Ping(r.Context(), nil) == nil
	}
	if rdb.Client != nil {
		resp.Redis = rdb.Client.Ping(r.Context()).Err() == nil
	}
	returnData(w, http.StatusOK, resp)
}
