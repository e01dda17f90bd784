package model

import "sort"

// FurnitureType is a key into the furniture catalog.
type FurnitureType string

// CatalogItem is the nominal footprint of a furniture type in feet.
type CatalogItem struct {
	Type     FurnitureType `json:"type"`
	Label    string        `json:"label"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Category string        `json:"category"`
}

var catalog = map[FurnitureType]CatalogItem{
	"bed-queen":    {Type: "bed-queen", Label: "Queen Bed", Width: 5, Height: 6.67, Category: "bedroom"},
	"bed-twin":     {Type: "bed-twin", Label: "Twin Bed", Width: 3.25, Height: 6.25, Category: "bedroom"},
	"dresser":      {Type: "dresser", Label: "Dresser", Width: 5, Height: 1.5, Category: "bedroom"},
	"nightstand":   {Type: "nightstand", Label: "Nightstand", Width: 1.5, Height: 1.5, Category: "bedroom"},
	"sofa":         {Type: "sofa", Label: "Sofa", Width: 7, Height: 3, Category: "living"},
	"armchair":     {Type: "armchair", Label: "Armchair", Width: 3, Height: 3, Category: "living"},
	"coffee-table": {Type: "coffee-table", Label: "Coffee Table", Width: 4, Height: 2, Category: "living"},
	"dining-table": {Type: "dining-table", Label: "Dining Table", Width: 5, Height: 3, Category: "dining"},
	"desk":         {Type: "desk", Label: "Desk", Width: 4, Height: 2, Category: "office"},
	"toilet":       {Type: "toilet", Label: "Toilet", Width: 1.5, Height: 2.5, Category: "bathroom"},
	"bathtub":      {Type: "bathtub", Label: "Bathtub", Width: 5, Height: 2.5, Category: "bathroom"},
	"shower":       {Type: "shower", Label: "Shower", Width: 3, Height: 3, Category: "bathroom"},
	"sink":         {Type: "sink", Label: "Sink", Width: 2, Height: 1.5, Category: "bathroom"},
	"refrigerator": {Type: "refrigerator", Label: "Refrigerator", Width: 3, Height: 2.5, Category: "kitchen"},
	"stove":        {Type: "stove", Label: "Stove", Width: 2.5, Height: 2.5, Category: "kitchen"},
	"washer":       {Type: "washer", Label: "Washer", Width: 2.5, Height: 2.5, Category: "laundry"},
}

// LookupFurniture returns the catalog entry for t.
func LookupFurniture(t FurnitureType) (CatalogItem, bool) {
	item, ok := catalog[t]
	return item, ok
}

// Catalog returns every catalog entry sorted by category, then label.
func Catalog() []CatalogItem {
	items := make([]CatalogItem, 0, len(catalog))
	for _, item := range catalog {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Label < items[j].Label
	})
	return items
}
