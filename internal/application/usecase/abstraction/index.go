package abstraction

import "context"

type Index interface {
	FindByTag(ctx context.Context, tag string) ([]string, error)
	FindByCustom(ctx context.Context, key, value string) ([]string, error)
	ListThumbnails(ctx context.Context) ([]string, error)
	FindParent(ctx context.Context, thumbnailKey string) (string, error)
}
