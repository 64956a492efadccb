package route

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

const (
	routeCity       = "Nizhny Novgorod, Russia"
	maxPromptedCats = 5
)

// BuildCategoriesPrompt asks the model to pick at most five relevant category ids.
// Categories are rendered in slice order, so identical input yields identical prompts.
func BuildCategoriesPrompt(userInterests string, categories []types.Category) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant that helps to select categories based on user interests.\n")
	b.WriteString("Here are the available categories with time to visit it:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %d: %s (average visit time: %d min)\n", c.ID, c.Name, c.AvgVisitDuration)
	}
	fmt.Fprintf(&b, "User interests: %s\n", userInterests)
	b.WriteString("Select the most relevant categories for the user.\n")
	b.WriteString("# INSTRUCTIONS FOR FORMING A RESPONSE:\n")
	fmt.Fprintf(&b, "1. Create a list of categories based on the user interests: %s.\n", userInterests)
	fmt.Fprintf(&b, "2. Choose no more than %d categories.\n", maxPromptedCats)
	b.WriteString("3. The response must be strictly a JSON array of category IDs, for example: [1, 2, 3]\n")
	return b.String()
}

// BuildRoutePrompt asks the model for an ordered 3-4 stop walking itinerary.
// The field list is the contract ParseRoutePlaces relies on. Visit durations come from the
// catalog, which already reports 30 minutes for uncategorised places.
func BuildRoutePrompt(places []types.Place, availableHours int, location types.UserLocation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI assistant that creates personalized walking routes in %s.\n", routeCity)
	b.WriteString("Here are the available places to include in the route:\n")
	for _, p := range places {
		fmt.Fprintf(&b, "- %s, address: %s, average visit duration: %d min\n", p.Title, p.Address, p.AvgVisitDuration)
	}
	fmt.Fprintf(&b, "User location: %s (latitude %.6f, longitude %.6f)\n",
		location.Address, location.Latitude, location.Longitude)
	fmt.Fprintf(&b, "Available time for the route: %d hours.\n", availableHours)
	b.WriteString("Create a walking route including 3-4 places, considering visit durations and travel times between them.\n")
	b.WriteString("# INSTRUCTIONS FOR FORMING A RESPONSE:\n")
	b.WriteString("1. Create a walking route, logically moving from the starting point to other places.\n")
	b.WriteString("2. Include 3-4 places in the route, combining categories. You may mention coffee shops for stops along the way, but do not include them as route places.\n")
	b.WriteString("3. Consider the average visit time and realistic travel time between points (5-15 minutes).\n")
	b.WriteString("4. The response must be a JSON array of route places, each object containing fields:\n")
	b.WriteString("- title (string): name of the place, exactly as listed above\n")
	b.WriteString("- address (string): the most accurate address of the place: street and house number\n")
	b.WriteString("- coordinates (object): with \"latitude\" and \"longitude\" as floats\n")
	b.WriteString("- category (object): with \"id\" (int) and \"name\" (string)\n")
	b.WriteString("- description (string): short textual description\n")
	b.WriteString("- visit_duration (int): average visit time in minutes\n")
	b.WriteString("- distance_from_user (float): approximate distance in km\n")
	b.WriteString("- reasoning (string): why this place was chosen\n")
	b.WriteString("Provide the response strictly as JSON matching this format.\n")
	return b.String()
}
