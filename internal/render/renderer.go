package render

import "context"

type Renderer interface {
	RenderCards(ctx context.Context, view CardsView) ([]byte, error)
	RenderLayout(ctx context.Context, view LayoutView) ([]byte, error)
	RenderIndex(ctx context.Context, view IndexView) ([]byte, error)
	RenderNotFound(ctx context.Context, view NotFoundView) ([]byte, error)
}
