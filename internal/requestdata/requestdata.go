package requestdata

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/a2p-backend/internal/domain/consent"
)

type requestDataKey struct{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey{})
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// RequestData carries per-request identity. Owner requests fill ProfileID;
// agent requests fill ActorDID plus whatever trust metadata the token
// carried.
type RequestData struct {
	TokenString  string
	RefreshToken string

	ProfileID uuid.UUID

	ActorDID string
	Trust    *consent.ActorTrust
}
