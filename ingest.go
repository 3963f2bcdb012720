package peraturan

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
)

// ErrInvalidYear is returned when a document year is not four digits. The
// year becomes part of a relationship type, so anything else is refused.
var ErrInvalidYear = errors.New("document year must be four digits")

var yearPattern = regexp.MustCompile(`^[0-9]{4}$`)

// Document is one regulation as produced by the document parser, together
// with the topics extracted from its considerations.
type Document struct {
	LawNumber string   `json:"doc_law_number"`
	Number    string   `json:"doc_number"`
	Title     string   `json:"doc_title"`
	Year      string   `json:"doc_year"`
	Type      string   `json:"doc_type"`
	Status    string   `json:"doc_status"`
	Topics    []string `json:"topics"`
}

// DocumentStatusLabel maps a document status to its node label. Anything
// other than the two known statuses is recorded as unknown.
func DocumentStatusLabel(status string) string {
	switch label := StatusLabel(status); label {
	case models.LabelBerlaku, models.LabelTidakBerlaku:
		return label
	default:
		return models.LabelTidakDiketahui
	}
}

// Ingest writes a document into the graph: the Peraturan node with its
// status label, its Bentuk, its Tahun and its Topik nodes. Existing outgoing
// relationships of the regulation are replaced, so ingesting the same
// document twice leaves one copy of every relationship. All statements of a
// document run in one transaction; a failure leaves the graph unchanged.
func (gm *GraphManager) Ingest(ctx context.Context, doc Document) error {
	doc.LawNumber = strings.TrimSpace(doc.LawNumber)
	doc.Year = strings.TrimSpace(doc.Year)
	if doc.LawNumber == "" {
		return fmt.Errorf("document has no law number")
	}
	if !yearPattern.MatchString(doc.Year) {
		return fmt.Errorf("%s: %w: %q", doc.LawNumber, ErrInvalidYear, doc.Year)
	}

	return gm.runner.Write(ctx, func(tx DBRunner) error {
		return gm.writeDocument(ctx, tx, doc)
	})
}

// writeDocument issues every statement of one document through tx.
func (gm *GraphManager) writeDocument(ctx context.Context, tx DBRunner, doc Document) error {
	peraturanRepo, err := NewRepository[models.Peraturan](tx)
	if err != nil {
		return err
	}
	bentukRepo, err := NewRepository[models.Bentuk](tx)
	if err != nil {
		return err
	}
	tahunRepo, err := NewRepository[models.Tahun](tx)
	if err != nil {
		return err
	}
	topikRepo, err := NewRepository[models.Topik](tx)
	if err != nil {
		return err
	}

	p := &models.Peraturan{
		NomorPeraturan: doc.LawNumber,
		Judul:          doc.Title,
		No:             doc.Number,
		Tahun:          doc.Year,
	}
	if err := peraturanRepo.Save(ctx, p); err != nil {
		return fmt.Errorf("save peraturan %s: %w", doc.LawNumber, err)
	}
	if err := resetRegulation(ctx, tx, doc.LawNumber, DocumentStatusLabel(doc.Status)); err != nil {
		return fmt.Errorf("reset peraturan %s: %w", doc.LawNumber, err)
	}

	if form := strings.TrimSpace(doc.Type); form != "" {
		b := &models.Bentuk{Name: form}
		if err := bentukRepo.Save(ctx, b); err != nil {
			return fmt.Errorf("save bentuk %s: %w", form, err)
		}
		if err := gm.createRelation(ctx, tx, p, b, models.RelBerbentuk, nil); err != nil {
			return fmt.Errorf("link bentuk %s: %w", form, err)
		}
	}

	t := &models.Tahun{Tahun: doc.Year}
	if err := tahunRepo.Save(ctx, t); err != nil {
		return fmt.Errorf("save tahun %s: %w", doc.Year, err)
	}
	if err := gm.createRelation(ctx, tx, p, t, YearRelationship(doc.Year), nil); err != nil {
		return fmt.Errorf("link tahun %s: %w", doc.Year, err)
	}

	seen := make(map[string]bool, len(doc.Topics))
	for _, name := range doc.Topics {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		topic := &models.Topik{NamaTopik: name}
		if err := topikRepo.Save(ctx, topic); err != nil {
			return fmt.Errorf("save topik %s: %w", name, err)
		}
		if err := gm.createRelation(ctx, tx, p, topic, models.RelMemilikiTopik, nil); err != nil {
			return fmt.Errorf("link topik %s: %w", name, err)
		}
	}
	return nil
}

// resetRegulation drops the regulation's outgoing relationships and status
// labels, then applies statusLabel.
func resetRegulation(ctx context.Context, runner DBRunner, number, statusLabel string) error {
	stmt := resetStatement(number, statusLabel)
	_, err := runner.Run(ctx, stmt.Cypher, stmt.Params)
	return err
}

// resetStatement builds the reset for one regulation. statusLabel is one of
// the three fixed status labels and never user text.
func resetStatement(number, statusLabel string) Statement {
	return Statement{
		Cypher: `MATCH (p:` + models.LabelPeraturan + ` {nomorPeraturan: $` + ParamNomorPeraturan + `})
OPTIONAL MATCH (p)-[r]->()
DELETE r
WITH DISTINCT p
REMOVE p:` + models.LabelBerlaku + `:` + models.LabelTidakBerlaku + `:` + models.LabelTidakDiketahui + `
SET p:` + statusLabel,
		Params: map[string]interface{}{ParamNomorPeraturan: number},
	}
}
