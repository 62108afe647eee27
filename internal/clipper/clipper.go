package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"mealweek/internal/llm"
	"mealweek/internal/mealplan"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Clipper fetches a recipe page and turns it into a planned item with an
// ingredient breakdown, ready to be appended to a meal slot.
type Clipper struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// extractedRecipe is the shape the AI returns for a clipped page.
type extractedRecipe struct {
	Name       string               `json:"name"`
	Serving    string               `json:"serving"`
	Grams      float64              `json:"grams"`
	Calories   float64              `json:"calories"`
	Protein    float64              `json:"protein"`
	Carbs      float64              `json:"carbs"`
	Fat        float64              `json:"fat"`
	Components []mealplan.Component `json:"components"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL and extracts a planned item using the AI. The
// returned item is tagged as a custom entry and carries the ingredient
// components grocery aggregation needs.
func (c *Clipper) ClipURL(ctx context.Context, url string) (mealplan.PlannedItem, error) {
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return mealplan.PlannedItem{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract one meal entry from the page
content below. Estimate nutrition when it is not stated and break the meal
down into raw ingredients with gram weights.
Return the result strictly as a JSON object with this structure:
{
  "name": "Recipe name",
  "serving": "e.g. 1 plate, 400 g",
  "grams": 400,
  "calories": 600,
  "protein": 30,
  "carbs": 55,
  "fat": 25,
  "components": [{"name": "Ingredient", "grams": 120}, ...]
}

Page content:
%s
`, content)

	resp, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return mealplan.PlannedItem{}, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return mealplan.PlannedItem{}, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}
	if strings.TrimSpace(extracted.Name) == "" {
		return mealplan.PlannedItem{}, fmt.Errorf("ai extraction returned no recipe name")
	}

	return mealplan.PlannedItem{
		ID:     uuid.NewString(),
		Name:   extracted.Name,
		Source: mealplan.SourceCustom,
		Grams:  extracted.Grams,
		Macros: &mealplan.Macros{
			Kcal:    int(math.Round(extracted.Calories)),
			Protein: int(math.Round(extracted.Protein)),
			Carbs:   int(math.Round(extracted.Carbs)),
			Fat:     int(math.Round(extracted.Fat)),
		},
		Components: extracted.Components,
	}, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
