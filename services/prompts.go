package services

import (
	"encoding/json"
	"fmt"

	"wardrobeapi/models"
)

const imageAnalysisPrompt = `Analyze this clothing item image and extract the following attributes.
Return ONLY a JSON object with these exact keys (use null if not detectable):
{
    "type": "one of: hoodie, t-shirt, jacket, sweater, pants, shirt, shorts, dress, other",
    "color": "primary color name (e.g., red, blue, black)",
    "fabricType": "one of: cotton, polyester, wool, denim, leather, silk, linen, other",
    "brand": "brand name if visible, else null",
    "graphicSize": "one of: large, small, none",
    "fit": "one of: baggy, regular, tight (estimate based on appearance)",
    "name": "suggested name for the item (optional)"
}

Be precise and only return valid JSON, no additional text.`

const suggestionsPromptTemplate = `Based on this wardrobe analysis: %s
And personal info: %s

Suggest 3-5 clothing items that would complement this wardrobe.
Consider the user's style preferences, existing color palette, and wardrobe gaps.

Return ONLY a JSON array with this exact format:
[
    {
        "itemType": "jacket",
        "reason": "A brief explanation of why this item would complement the wardrobe",
        "recommendedAttributes": {
            "color": "black",
            "fit": "regular",
            "fabricType": "cotton",
            "reasoning": "Brief reasoning for these attributes"
        }
    }
]

Use itemType values: t-shirt, shirt, hoodie, jacket, sweater, pants, shorts, dress, other
Use fit values: baggy, regular, tight
Use fabricType values: cotton, polyester, wool, denim, leather, silk, linen, other
Return ONLY valid JSON array, no additional text.`

const outfitPromptTemplate = `Based on this wardrobe: %s
Personal info: %s
Style preference: %s
Occasion: %s

Recommend a complete outfit from the available wardrobe items. Consider:
- Color coordination
- Style coherence
- Fit compatibility
- The user's style preference: %s

Return ONLY a JSON object with this exact format:
{
    "top": {"id": "item-id", "name": "item name", "reason": "why this top was chosen"},
    "bottom": {"id": "item-id", "name": "item name", "reason": "why this bottom was chosen"},
    "outerwear": {"id": "item-id or null", "name": "item name or null", "reason": "why this outerwear was chosen (or why none)"},
    "shoes": {"suggestion": "type of shoes to wear", "reason": "why these shoes match"},
    "reasoning": "Overall explanation of the outfit choice",
    "missingItems": ["item1", "item2"]
}

Use actual item IDs from the wardrobe. If an item type is missing, set id to null and name to null.
Return ONLY valid JSON, no additional text.`

type promptItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Color      string `json:"color"`
	Fit        string `json:"fit"`
	FabricType string `json:"fabricType"`
}

type promptWardrobe struct {
	TotalItems int          `json:"totalItems"`
	Items      []promptItem `json:"items"`
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func suggestionsPrompt(analysis models.WardrobeAnalysis, info models.PersonalInfo) string {
	return fmt.Sprintf(suggestionsPromptTemplate, toJSON(analysis), toJSON(info))
}

// outfitPrompt lists the items it is given; callers cap the list.
func outfitPrompt(items []models.ClothingItem, info models.PersonalInfo, stylePrompt, occasion string) string {
	wardrobe := promptWardrobe{TotalItems: len(items), Items: make([]promptItem, 0, len(items))}
	for _, item := range items {
		wardrobe.Items = append(wardrobe.Items, promptItem{
			ID:         item.ID,
			Name:       item.Name,
			Type:       string(item.Type),
			Color:      item.Color,
			Fit:        string(item.Fit),
			FabricType: string(item.FabricType),
		})
	}
	style := stylePrompt
	if style == "" {
		style = "general everyday style"
	}
	if occasion == "" {
		occasion = "general"
	}
	return fmt.Sprintf(outfitPromptTemplate, toJSON(wardrobe), toJSON(info), style, occasion, style)
}
