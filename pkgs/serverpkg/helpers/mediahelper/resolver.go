package mediahelper

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

type Kind string

const (
	KindIcon       Kind = "icon"
	KindTip        Kind = "tip"
	KindBanner     Kind = "banner"
	KindScreenshot Kind = "screenshot"
	KindDrawing    Kind = "drawing"
)

var Kinds = []Kind{KindIcon, KindTip, KindBanner, KindScreenshot, KindDrawing}

////////////////////////////////////////////////////////////////////////////////

// Step is one lookup in a resolution chain. find returns "" when the entity
// is absent or carries no usable image.
type Step struct {
	Name string
	find func(ctx context.Context, id string) (string, error)
}

func newStep[T any](
	name string,
	lookup func(ctx context.Context, id string) (*T, error),
	field func(*T) string,
) Step {
	return Step{
		Name: name,
		find: func(ctx context.Context, id string) (string, error) {
			entity, err := lookup(ctx, id)
			if err != nil {
				return "", fmt.Errorf("%s lookup failed: %w", name, err)
			}
			if entity == nil {
				return "", nil
			}
			return field(entity), nil
		},
	}
}

// byPid adapts a pid-keyed lookup to the opaque string ids used in paths.
// An id that is not a pid cannot match any row. Pids are stored as signed
// BIGINT, so anything above math.MaxInt64 is not a pid either.
func byPid[T any](lookup func(ctx context.Context, pid uint64) (*T, error)) func(context.Context, string) (*T, error) {
	return func(ctx context.Context, id string) (*T, error) {
		pid, err := strconv.ParseInt(id, 10, 64)
		if err != nil || pid < 0 {
			return nil, nil
		}
		return lookup(ctx, uint64(pid))
	}
}

func nullable(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

////////////////////////////////////////////////////////////////////////////////

type Resolver struct {
	chains map[Kind][]Step
}

func NewResolver(
	db *sqlx.DB,
	communityRepo CommunityRepo,
	settingsRepo SettingsRepo,
	accountRepo AccountRepo,
	postRepo PostRepo,
) *Resolver {
	community := func(ctx context.Context, id string) (*model.Community, error) {
		return communityRepo.GetById(ctx, db, id)
	}
	settings := byPid(func(ctx context.Context, pid uint64) (*model.UserSettings, error) {
		return settingsRepo.GetByPid(ctx, db, pid)
	})
	account := byPid(func(ctx context.Context, pid uint64) (*model.Account, error) {
		return accountRepo.GetByPid(ctx, db, pid)
	})
	post := func(ctx context.Context, id string) (*model.Post, error) {
		return postRepo.GetById(ctx, db, id)
	}

	return &Resolver{
		chains: map[Kind][]Step{
			KindIcon: {
				newStep("community.browser_icon", community, func(c *model.Community) string { return nullable(c.BrowserIcon) }),
				newStep("settings.pfp_uri", settings, func(s *model.UserSettings) string { return nullable(s.PfpUri) }),
			},
			KindTip: {
				newStep("community.browser_thumbnail", community, func(c *model.Community) string { return nullable(c.BrowserThumbnail) }),
				newStep("account.pfp_uri", account, func(a *model.Account) string { return nullable(a.PfpUri) }),
			},
			KindBanner: {
				newStep("community.wiiu_browser_header", community, func(c *model.Community) string { return nullable(c.WiiUBrowserHeader) }),
			},
			KindScreenshot: {
				newStep("post.screenshot", post, func(p *model.Post) string { return p.Screenshot }),
			},
			KindDrawing: {
				newStep("post.painting_uri", post, func(p *model.Post) string { return p.PaintingUri }),
			},
		},
	}
}

// Chain returns the step names tried for kind, in order.
func (r *Resolver) Chain(kind Kind) []string {
	steps := r.chains[kind]
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.Name)
	}
	return names
}

// Resolve walks the chain for kind and returns the first usable encoded
// image. Each step runs only after the previous one came back empty.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, id string) (string, bool, error) {
	steps, ok := r.chains[kind]
	if !ok {
		return "", false, fmt.Errorf("unknown media kind: %q", kind)
	}

	for _, step := range steps {
		encoded, err := step.find(ctx, id)
		if err != nil {
			return "", false, err
		}
		if encoded != "" {
			log.WithFields(log.Fields{
				"caller": "Resolver.Resolve",
				"kind":   kind,
				"id":     id,
				"step":   step.Name,
			}).Debug("media resolved")
			return encoded, true, nil
		}
	}
	return "", false, nil
}
