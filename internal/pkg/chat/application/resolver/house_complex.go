package resolver

import (
	"context"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"

	"golang.org/x/sync/errgroup"
)

// HouseComplexResolver opens a group chat for a whole complex: its manager plus the occupants
// of every house in it.
type HouseComplexResolver struct {
	Complexes HouseComplexReader
}

func NewHouseComplexResolver(complexes HouseComplexReader) *HouseComplexResolver {
	return &HouseComplexResolver{Complexes: complexes}
}

func (r *HouseComplexResolver) Kind() chat.ContextKind { return chat.ContextKindHouseComplex }

func (r *HouseComplexResolver) Resolve(ctx context.Context, ref chat.ContextRef, _ int64) (chat.ResolvedContext, error) {
	var (
		hc        HouseComplex
		occupants []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hc, err = r.Complexes.HouseComplexByID(gctx, ref.ID)
		return err
	})
	g.Go(func() error {
		var err error
		occupants, err = r.Complexes.HouseComplexOccupantIDs(gctx, ref.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return chat.ResolvedContext{}, mapReadError(ref, err)
	}
	if hc.Archived {
		return chat.ResolvedContext{}, fmt.Errorf("%w: %s is archived", chat.ErrContextNotFound, ref)
	}

	return chat.ResolvedContext{
		Type:         chat.ChatTypeHouseComplex,
		Title:        titlePtr("Complex %s", hc.Name),
		Participants: withMembers(hc.ManagerID, occupants),
	}, nil
}
