package gemini

import (
	"fmt"
	"strings"

	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/generation"
)

// buildPrompt composes the single-traveler generation prompt. Each traveler
// gets a focused prompt rather than one batch prompt for the whole trip; the
// pipeline fans out the calls and merges the results.
func buildPrompt(traveler domain.Traveler, tripCtx generation.TripContext) string {
	var b strings.Builder

	b.WriteString("You are a family travel packing expert. Generate a detailed, personalized ")
	b.WriteString("packing list for ONE traveler based on the trip details, weather, planned ")
	b.WriteString("activities, and transportation below.\n\n")

	b.WriteString("# TRIP DETAILS\n")
	fmt.Fprintf(&b, "Destination: %s\n", tripCtx.Destination)
	fmt.Fprintf(&b, "Duration: %d days\n", tripCtx.DurationDays)
	b.WriteString(laundryNote(tripCtx.DurationDays))
	b.WriteString("\n")

	b.WriteString("# TRAVELER PROFILE\n")
	fmt.Fprintf(&b, "Name: %s\n", traveler.DisplayName())
	fmt.Fprintf(&b, "Age: %d years old\n", traveler.Age)
	fmt.Fprintf(&b, "Type: %s\n", traveler.Type)
	b.WriteString(ageGuidance(traveler.Age))
	b.WriteString("\n")

	b.WriteString(packerRole(traveler, tripCtx.IsPrimaryPacker))
	b.WriteString("\n")

	b.WriteString("# TRIP CONDITIONS\n")
	if tripCtx.Weather != nil {
		fmt.Fprintf(&b, "Average Temperature: %.1f°C\n", tripCtx.Weather.AvgTempC)
		fmt.Fprintf(&b, "Conditions: %s\n", joinConditions(tripCtx.Weather.Conditions))
		if tripCtx.Weather.Recommendation != "" {
			fmt.Fprintf(&b, "Packing hint: %s\n", tripCtx.Weather.Recommendation)
		}
	} else {
		b.WriteString("Weather: Not available\n")
	}
	fmt.Fprintf(&b, "Planned Activities: %s\n", joinOrDefault(tripCtx.Activities, "General sightseeing and relaxation"))
	fmt.Fprintf(&b, "Transportation: %s\n\n", joinOrDefault(tripCtx.Transport, "Not specified"))

	b.WriteString(`# RULES
- Use ONLY these categories: clothing, toiletries, electronics, documents, health, comfort, activities, baby, misc.
- Always include basic everyday clothing first; quantities follow trip duration and laundry access.
- Activity-specific items (clothing or gear) MUST start with an asterisk, e.g. "*Hiking boots".
- Assume the traveler owns all gear; never suggest rentals.
- No activity gear for infants under 2; children over 2 get full age-appropriate gear sets.
- Use "Rain Gear" instead of "Umbrella".
- Mark essential only for items that would ruin the trip if forgotten (documents, medications, phone charger).

# OUTPUT FORMAT
Return only JSON in this shape, no prose:
{"items": [{"name": "T-shirts", "category": "clothing", "quantity": 5, "essential": false}]}
`)

	return b.String()
}

func laundryNote(durationDays int) string {
	switch {
	case durationDays > 5:
		return "Laundry Access: Assume available every 3-4 days (plan outfit rotation accordingly)\n"
	case durationDays > 3:
		return "Laundry Access: May be available mid-trip\n"
	default:
		return "Laundry Access: Not needed for short trip\n"
	}
}

func ageGuidance(age int) string {
	switch {
	case age < 2:
		return "Special considerations: infant. Include comprehensive baby care items, extra changes of clothes, and comfort items.\n"
	case age < 5:
		return "Special considerations: toddler. Include comfort items, snacks, travel entertainment, and extra changes of clothes.\n"
	case age < 13:
		return "Special considerations: child. Include age-appropriate entertainment, comfort items from home, and kid-friendly toiletries.\n"
	case age < 18:
		return "Special considerations: teen. Include personal electronics, age-appropriate personal care, and activity gear.\n"
	default:
		return ""
	}
}

// packerRole tells the model whether this traveler carries the shared family
// items. One primary packer per trip keeps first-aid kits and chargers from
// appearing on every list.
func packerRole(traveler domain.Traveler, isPrimary bool) string {
	if isPrimary {
		return `# PACKER ROLE
PRIMARY PACKER: include SHARED family items in addition to personal items
(family toiletries, first aid kit, shared chargers and adapters, travel
documents, laundry supplies).
`
	}
	return fmt.Sprintf(`# PACKER ROLE
SECONDARY PACKER: include ONLY %s's personal items. Do NOT include shared
family items such as the first aid kit, family toiletries, or shared chargers.
`, traveler.DisplayName())
}

func joinConditions(conditions []domain.WeatherCondition) string {
	if len(conditions) == 0 {
		return "varied"
	}
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinOrDefault(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
