package resolver

import (
	"context"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"

	"golang.org/x/sync/errgroup"
)

// HouseResolver opens a group chat for one housing unit: its manager and every occupant.
type HouseResolver struct {
	Houses HouseReader
}

func NewHouseResolver(houses HouseReader) *HouseResolver {
	return &HouseResolver{Houses: houses}
}

func (r *HouseResolver) Kind() chat.ContextKind { return chat.ContextKindHouse }

func (r *HouseResolver) Resolve(ctx context.Context, ref chat.ContextRef, _ int64) (chat.ResolvedContext, error) {
	var (
		house     House
		occupants []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		house, err = r.Houses.HouseByID(gctx, ref.ID)
		return err
	})
	g.Go(func() error {
		var err error
		occupants, err = r.Houses.HouseOccupantIDs(gctx, ref.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return chat.ResolvedContext{}, mapReadError(ref, err)
	}
	if house.Archived {
		return chat.ResolvedContext{}, fmt.Errorf("%w: %s is archived", chat.ErrContextNotFound, ref)
	}

	return chat.ResolvedContext{
		Type:         chat.ChatTypeHouse,
		Title:        titlePtr("House %s, %s", house.Number, house.Address),
		Participants: withMembers(house.ManagerID, occupants),
	}, nil
}

// withMembers puts owner first and every other id after it as a member, in input order.
func withMembers(owner int64, members []int64) []chat.ParticipantDescriptor {
	out := make([]chat.ParticipantDescriptor, 0, len(members)+1)
	out = append(out, chat.ParticipantDescriptor{UserID: owner, Role: chat.ParticipantRoleOwner})
	for _, id := range members {
		if id == owner {
			continue
		}
		out = append(out, chat.ParticipantDescriptor{UserID: id, Role: chat.ParticipantRoleMember})
	}
	return out
}
