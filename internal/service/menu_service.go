package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"prenotazioni/internal/db"
)

// Items shown per category when reading the whole menu aloud.
const spokenItemsPerCategory = 3

type MenuService struct {
	Menu         MenuStore
	RestaurantID int
}

func NewMenuService(menu MenuStore, restaurantID int) *MenuService {
	return &MenuService{Menu: menu, RestaurantID: restaurantID}
}

func (s *MenuService) List(ctx context.Context, category string) ([]db.MenuItem, error) {
	return s.Menu.List(ctx, s.RestaurantID, category)
}

func (s *MenuService) Search(ctx context.Context, term string) ([]db.MenuItem, error) {
	return s.Menu.Search(ctx, s.RestaurantID, term)
}

// Describe renders menu information as text the voice agent can speak.
// A search term wins over a category filter; with neither, the full menu is
// summarized with a few items per category.
func (s *MenuService) Describe(ctx context.Context, category, searchTerm string) string {
	if searchTerm != "" {
		items, err := s.Menu.Search(ctx, s.RestaurantID, searchTerm)
		if err != nil || len(items) == 0 {
			return fmt.Sprintf("I couldn't find any menu items matching '%s'. Would you like to hear about our menu categories?", searchTerm)
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Here are the menu items I found for '%s':\n\n", searchTerm)
		for _, item := range items {
			writeSpokenItem(&sb, item)
		}
		return sb.String()
	}

	items, err := s.Menu.List(ctx, s.RestaurantID, category)
	if err != nil || len(items) == 0 {
		return "I'm sorry, I don't have menu information available right now. Please ask your server when you arrive."
	}

	var sb strings.Builder
	if category != "" {
		fmt.Fprintf(&sb, "Here are our %s options:\n\n", category)
		for _, item := range items {
			writeSpokenItem(&sb, item)
		}
		return sb.String()
	}

	sb.WriteString("Here's our menu:\n\n")
	var current string
	count := 0
	for _, item := range items {
		if item.Category != current {
			if current != "" {
				sb.WriteString("\n")
			}
			current = item.Category
			count = 0
			fmt.Fprintf(&sb, "%s:\n", strings.ToUpper(item.Category))
		}
		if count < spokenItemsPerCategory {
			fmt.Fprintf(&sb, "- %s - $%.2f\n", item.ItemName, item.Price)
			count++
		}
	}
	return sb.String()
}

func writeSpokenItem(sb *strings.Builder, item db.MenuItem) {
	fmt.Fprintf(sb, "- %s - $%.2f\n", item.ItemName, item.Price)
	if item.Description.Valid {
		fmt.Fprintf(sb, "  %s\n", item.Description.String)
	}
	if len(item.Allergens) > 0 {
		fmt.Fprintf(sb, "  Allergens: %s\n", strings.Join(item.Allergens, ", "))
	}
	sb.WriteString("\n")
}

// SeedSampleMenu loads a starter menu for a fresh install.
func (s *MenuService) SeedSampleMenu(ctx context.Context) (int, error) {
	return s.Menu.Seed(ctx, s.RestaurantID, sampleMenu())
}

func sampleMenu() []db.MenuItem {
	desc := func(text string) sql.NullString {
		return sql.NullString{String: text, Valid: true}
	}
	return []db.MenuItem{
		{Category: "appetizers", ItemName: "Truffle Arancini", Description: desc("Crispy risotto balls with truffle oil and parmesan"), Price: 16.00, Allergens: []string{"gluten", "dairy"}, IsAvailable: true},
		{Category: "appetizers", ItemName: "Burrata Caprese", Description: desc("Fresh burrata with heirloom tomatoes and basil"), Price: 18.00, Allergens: []string{"dairy"}, IsAvailable: true},
		{Category: "appetizers", ItemName: "Oysters on Half Shell", Description: desc("Fresh daily selection with mignonette"), Price: 3.50, Allergens: []string{"shellfish"}, IsAvailable: true},
		{Category: "mains", ItemName: "Dry-Aged Ribeye", Description: desc("28-day aged ribeye with seasonal vegetables and red wine jus"), Price: 58.00, IsAvailable: true},
		{Category: "mains", ItemName: "Pan-Seared Halibut", Description: desc("Fresh halibut with lemon risotto and asparagus"), Price: 42.00, Allergens: []string{"fish", "dairy"}, IsAvailable: true},
		{Category: "mains", ItemName: "Duck Confit", Description: desc("Slow-cooked duck leg with cherry gastrique and roasted vegetables"), Price: 38.00, IsAvailable: true},
		{Category: "mains", ItemName: "Lobster Ravioli", Description: desc("House-made pasta with lobster in cream sauce"), Price: 36.00, Allergens: []string{"shellfish", "gluten", "dairy", "eggs"}, IsAvailable: true},
		{Category: "desserts", ItemName: "Chocolate Souffle", Description: desc("Warm chocolate souffle with vanilla ice cream"), Price: 14.00, Allergens: []string{"dairy", "eggs", "gluten"}, IsAvailable: true},
		{Category: "desserts", ItemName: "Tiramisu", Description: desc("Classic Italian dessert with espresso and mascarpone"), Price: 12.00, Allergens: []string{"dairy", "eggs", "gluten"}, IsAvailable: true},
		{Category: "beverages", ItemName: "House Wine Selection", Description: desc("Ask your server about our curated wine list"), Price: 12.00, Allergens: []string{"sulfites"}, IsAvailable: true},
		{Category: "beverages", ItemName: "Craft Cocktails", Description: desc("Signature cocktails made with premium spirits"), Price: 15.00, IsAvailable: true},
	}
}
