package report

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/scoring"
)

// Domain is one domain mean of a mean-scored scale.
type Domain struct {
	Name    string  `json:"name"`
	Mean    float64 `json:"mean"`
	Flagged bool    `json:"flagged"`
}

// ScaleResult is one scale in the export document.
type ScaleResult struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Scoring   string   `json:"scoring"`
	Score     float64  `json:"score"`
	Max       float64  `json:"max"`
	Threshold *float64 `json:"threshold,omitempty"`
	Band      string   `json:"band"`
	Label     string   `json:"label,omitempty"`
	Answered  int      `json:"answered"`
	Items     int      `json:"items"`
	Domains   []Domain `json:"domains,omitempty"`
	// Answers maps question id to the chosen value; not applicable is -1.
	Answers map[int]float64 `json:"answers"`
}

// Document is the machine-readable export of one session.
type Document struct {
	SessionID string         `json:"session_id,omitempty"`
	Profile   models.Profile `json:"profile"`
	Scales    []ScaleResult  `json:"scales"`
	Summary   string         `json:"summary,omitempty"`
}

// NewDocument projects results onto the export document in catalog order.
func NewDocument(res models.Results, cat *catalog.Catalog, sessionID string) Document {
	doc := Document{SessionID: sessionID, Profile: res.Profile}

	for _, s := range cat.Scales() {
		score := res.Score(s.ID)
		band := scoring.Classify(s, score)
		answered, total := scoring.Progress(s, res.Profile, res.Answers)

		sr := ScaleResult{
			ID:        s.ID,
			Name:      s.Name,
			Scoring:   string(s.ScoringType),
			Score:     score,
			Max:       scoring.MaxScore(s, res.Profile),
			Threshold: s.Threshold,
			Band:      band.String(),
			Label:     scoring.BandLabel(s, band),
			Answered:  answered,
			Items:     total,
			Answers:   res.Answers.WireValues(s, res.Profile),
		}

		if means := res.Domains(s.ID); means != nil {
			flagged := make(map[string]bool)
			for _, d := range scoring.FlaggedDomains(s, res.Profile, means) {
				flagged[d.Domain] = true
			}
			for _, name := range scoring.DomainOrder(s, res.Profile) {
				sr.Domains = append(sr.Domains, Domain{Name: name, Mean: means[name], Flagged: flagged[name]})
			}
		}
		doc.Scales = append(doc.Scales, sr)
	}
	return doc
}

// JSON renders results as an indented export document.
func JSON(res models.Results, cat *catalog.Catalog, sessionID string) ([]byte, error) {
	return MarshalDocument(NewDocument(res, cat, sessionID))
}

// MarshalDocument renders a document, for callers that attach a summary.
func MarshalDocument(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(data, '\n'), nil
}
