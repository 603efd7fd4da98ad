package handler

import (
	"gorm.io/gorm"

	"go.uber.org/zap"

	"github.com/fintalk/fintalk/internal/cache"
	"github.com/fintalk/fintalk/internal/db"
	"github.com/fintalk/fintalk/internal/service"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	posts     *service.PostService
	saved     *service.SavedArticleService
	follows   *service.FollowService
	flags     *service.FlagService
	media     *service.MediaService
	cache     *cache.Cache
	log       *zap.Logger
	uploadDir string
	uploadURL string
	listener  *publishListener
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, log *zap.Logger, store *cache.Cache, uploadDir, uploadURL string) *API {
	if log == nil {
		log = zap.NewNop()
	}
	api := &API{
		db:        gdb,
		posts:     service.NewPostService(gdb, log),
		saved:     service.NewSavedArticleService(gdb, log),
		follows:   service.NewFollowService(gdb, log),
		flags:     service.NewFlagService(gdb, log),
		media:     service.NewMediaService(gdb, log),
		cache:     store,
		log:       log,
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
	// 发布定时到期的文章不经过 HTTP 层,这里统一在通知链里
	// 失效列表缓存,避免扫表发布后列表里仍是 scheduled 状态
	api.listener = &publishListener{api: api}
	api.posts.SetNotifier(api.listener)
	return api
}

// publishListener invalidates the cached list pages on every publish
// transition, then forwards to the optional downstream notifier.
type publishListener struct {
	api  *API
	next service.PostPublishedNotifier
}

func (l *publishListener) PostPublished(post *db.Post) {
	l.api.cache.InvalidateByPrefix(postListCachePrefix)
	if l.next != nil {
		l.next.PostPublished(post)
	}
}

// SetPublishNotifier registers a downstream notifier invoked after the cache
// invalidation, for both the explicit publish operation and the sweep.
func (a *API) SetPublishNotifier(n service.PostPublishedNotifier) {
	a.listener.next = n
}

// Posts exposes the post service so the bootstrap can start the publish
// sweeper.
func (a *API) Posts() *service.PostService {
	return a.posts
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
