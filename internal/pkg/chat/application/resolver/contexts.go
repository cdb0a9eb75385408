package resolver

import (
	"context"
	"errors"
)

// ErrNotFound is returned by readers when the context entity does not exist.
var ErrNotFound = errors.New("resolver: context entity not found")

type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusClosed     IssueStatus = "closed"
)

// Issue is a support ticket raised by a resident.
type Issue struct {
	ID         int64
	Subject    string
	ReporterID int64
	AssigneeID *int64
	Status     IssueStatus
}

type IssueReader interface {
	IssueByID(ctx context.Context, id int64) (Issue, error)
}

// House is a single housing unit.
type House struct {
	ID        int64
	Number    string
	Address   string
	ManagerID int64
	Archived  bool
}

type HouseReader interface {
	HouseByID(ctx context.Context, id int64) (House, error)
	HouseOccupantIDs(ctx context.Context, houseID int64) ([]int64, error)
}

// HouseComplex groups several houses under one manager.
type HouseComplex struct {
	ID        int64
	Name      string
	ManagerID int64
	Archived  bool
}

type HouseComplexReader interface {
	HouseComplexByID(ctx context.Context, id int64) (HouseComplex, error)
	HouseComplexOccupantIDs(ctx context.Context, complexID int64) ([]int64, error)
}

type ListingStatus string

const (
	ListingStatusActive ListingStatus = "active"
	ListingStatusSold   ListingStatus = "sold"
	ListingStatusHidden ListingStatus = "hidden"
)

// MarketListing is an item offered on the marketplace.
type MarketListing struct {
	ID       int64
	Title    string
	SellerID int64
	Status   ListingStatus
}

type MarketReader interface {
	ListingByID(ctx context.Context, id int64) (MarketListing, error)
	ListingSubscriberIDs(ctx context.Context, listingID int64) ([]int64, error)
}
