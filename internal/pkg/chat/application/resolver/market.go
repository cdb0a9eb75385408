package resolver

import (
	"context"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"

	"golang.org/x/sync/errgroup"
)

// MarketResolver opens the discussion chat of a marketplace listing: the seller owns it,
// subscribers of the listing and the requesting user join as members.
type MarketResolver struct {
	Listings MarketReader
}

func NewMarketResolver(listings MarketReader) *MarketResolver {
	return &MarketResolver{Listings: listings}
}

func (r *MarketResolver) Kind() chat.ContextKind { return chat.ContextKindMarket }

func (r *MarketResolver) Resolve(ctx context.Context, ref chat.ContextRef, requestedBy int64) (chat.ResolvedContext, error) {
	var (
		listing     MarketListing
		subscribers []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listing, err = r.Listings.ListingByID(gctx, ref.ID)
		return err
	})
	g.Go(func() error {
		var err error
		subscribers, err = r.Listings.ListingSubscriberIDs(gctx, ref.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return chat.ResolvedContext{}, mapReadError(ref, err)
	}
	if listing.Status != ListingStatusActive {
		return chat.ResolvedContext{}, fmt.Errorf("%w: %s is %s", chat.ErrContextNotFound, ref, listing.Status)
	}

	members := subscribers
	if requestedBy > 0 {
		members = append(append([]int64(nil), subscribers...), requestedBy)
	}

	return chat.ResolvedContext{
		Type:         chat.ChatTypeMarket,
		Title:        titlePtr("Market: %s", listing.Title),
		Participants: withMembers(listing.SellerID, members),
	}, nil
}
