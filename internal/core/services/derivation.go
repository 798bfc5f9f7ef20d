package services

import (
	"sort"
	"strings"

	"github.com/mdnahid/baki_khata_app/internal/models"
	"github.com/shopspring/decimal"
)

// SortOrder selects how a customer listing is ordered.
type SortOrder string

const (
	// SortByName orders lexically ascending by customer name.
	SortByName SortOrder = "name"
	// SortByBalance orders descending by balance; ties break by name
	// ascending so the listing is deterministic.
	SortByBalance SortOrder = "balance"
)

// ComputeTotals folds the entry list into the global dashboard totals
// in a single pass. Each entry lands on exactly one side of the fixed
// debit/credit partition.
func ComputeTotals(entries []models.LedgerEntry) models.DashboardTotals {
	totals := models.DashboardTotals{
		TotalExtended: decimal.Zero,
		TotalReceived: decimal.Zero,
		EntryCount:    len(entries),
	}
	for _, e := range entries {
		if e.Kind.IsDebit() {
			totals.TotalExtended = totals.TotalExtended.Add(e.Amount)
		} else {
			totals.TotalReceived = totals.TotalReceived.Add(e.Amount)
		}
	}
	totals.TotalOutstanding = totals.TotalExtended.Sub(totals.TotalReceived)
	return totals
}

// ComputeFolders groups entries by trimmed customer name and derives
// the per-customer balance, transaction count, and most recent
// activity. Grouping is case-sensitive: "Rahim" and "rahim" are
// different customers. Entries whose name trims to empty are excluded
// entirely; no folder with an empty key can exist. Last activity is
// compared as instants, never as strings. The phone map attaches a
// contact to each folder that has one.
func ComputeFolders(entries []models.LedgerEntry, phones map[string]string) map[string]models.CustomerFolder {
	folders := make(map[string]models.CustomerFolder)
	for _, e := range entries {
		name := strings.TrimSpace(e.CustomerName)
		if name == "" {
			continue
		}

		folder, ok := folders[name]
		if !ok {
			folder = models.CustomerFolder{Name: name, Balance: decimal.Zero}
		}

		if e.Kind.IsDebit() {
			folder.Balance = folder.Balance.Add(e.Amount)
		} else {
			folder.Balance = folder.Balance.Sub(e.Amount)
		}
		folder.Count++
		if e.OccurredAt.After(folder.LastActivityAt) {
			folder.LastActivityAt = e.OccurredAt
		}
		folders[name] = folder
	}

	for name, folder := range folders {
		if phone, ok := phones[name]; ok {
			folder.Phone = phone
			folders[name] = folder
		}
	}
	return folders
}

// FilterAndSort returns the folders whose name contains the query
// (plain case-insensitive substring, whitespace included; empty query
// matches all), ordered per the given sort order.
func FilterAndSort(folders map[string]models.CustomerFolder, query string, order SortOrder) []models.CustomerFolder {
	needle := strings.ToLower(query)

	out := make([]models.CustomerFolder, 0, len(folders))
	for name, folder := range folders {
		if needle == "" || strings.Contains(strings.ToLower(name), needle) {
			out = append(out, folder)
		}
	}

	switch order {
	case SortByBalance:
		sort.Slice(out, func(i, j int) bool {
			if !out[i].Balance.Equal(out[j].Balance) {
				return out[i].Balance.GreaterThan(out[j].Balance)
			}
			return out[i].Name < out[j].Name
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	}
	return out
}
