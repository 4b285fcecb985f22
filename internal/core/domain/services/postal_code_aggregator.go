package services

import (
	"bagpub/internal/core/domain/model/kernel"
)

// MaxCampaignsPerBatch bounds the size of a suggested batch.
const MaxCampaignsPerBatch = 12

// PlannedCampaign is the slice of a CREATED, batch-less campaign the aggregator needs.
type PlannedCampaign struct {
	ID             kernel.UUID
	PostalCodes    []kernel.PostalCode
	Quantity       int
	ClientName     string
	EstimatedPrice float64
}

// BatchSuggestion is one proposed batch for a postal code.
type BatchSuggestion struct {
	PostalCode     kernel.PostalCode
	CampaignIDs    []kernel.UUID
	CampaignsCount int
	TotalQuantity  int
	Clients        []string
	EstimatedPrice float64
}

// PostalCodeAggregator plans batches from a snapshot of unassigned campaigns.
// It is pure: nothing is persisted or mutated.
type PostalCodeAggregator struct {
	chunkSize int
}

func NewPostalCodeAggregator() PostalCodeAggregator {
	return PostalCodeAggregator{chunkSize: MaxCampaignsPerBatch}
}

// Suggest files every campaign under each postal code it lists (a campaign can
// appear under several codes), keeps buckets in order of first appearance and cuts
// each bucket into consecutive groups of at most MaxCampaignsPerBatch.
//
// Given 15 campaigns for 75001 the groups are [c1..c12] and [c13..c15], never a
// repacked [8, 7].
func (a PostalCodeAggregator) Suggest(campaigns []PlannedCampaign) []BatchSuggestion {
	order := make([]kernel.PostalCode, 0)
	buckets := make(map[string][]PlannedCampaign)

	for _, c := range campaigns {
		listed := make(map[string]struct{}, len(c.PostalCodes))
		for _, code := range c.PostalCodes {
			key := code.String()
			if _, dup := listed[key]; dup {
				continue
			}
			listed[key] = struct{}{}
			if _, seen := buckets[key]; !seen {
				order = append(order, code)
			}
			buckets[key] = append(buckets[key], c)
		}
	}

	suggestions := make([]BatchSuggestion, 0)
	for _, code := range order {
		bucket := buckets[code.String()]
		for start := 0; start < len(bucket); start += a.chunkSize {
			end := min(start+a.chunkSize, len(bucket))
			suggestions = append(suggestions, summarize(code, bucket[start:end]))
		}
	}
	return suggestions
}

func summarize(code kernel.PostalCode, group []PlannedCampaign) BatchSuggestion {
	s := BatchSuggestion{
		PostalCode:     code,
		CampaignIDs:    make([]kernel.UUID, 0, len(group)),
		CampaignsCount: len(group),
		Clients:        make([]string, 0),
	}
	seenClients := make(map[string]struct{})
	for _, c := range group {
		s.CampaignIDs = append(s.CampaignIDs, c.ID)
		s.TotalQuantity += c.Quantity
		s.EstimatedPrice += c.EstimatedPrice
		if _, ok := seenClients[c.ClientName]; !ok {
			seenClients[c.ClientName] = struct{}{}
			s.Clients = append(s.Clients, c.ClientName)
		}
	}
	return s
}
