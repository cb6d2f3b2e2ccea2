package server

import (
	"context"
	"net/http"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/services"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/mediahelper"
)

type MediaResolver interface {
	Resolve(ctx context.Context, kind mediahelper.Kind, id string) (string, bool, error)
}

type AccountService interface {
	UnreadCounts(ctx context.Context, pid uint64) (*services.UnreadCounts, error)
	Post(ctx context.Context, id string) (*model.Post, error)
	ExportUserData(ctx context.Context, pid uint64) (*services.UserData, error)
}

// Authenticator returns the pid of the caller, or an error when the request
// carries no valid identity.
type Authenticator interface {
	Authenticate(r *http.Request) (uint64, error)
}

// DirectoryResolver picks the webfiles directory a request is served from.
type DirectoryResolver interface {
	Directory(r *http.Request) string
}
