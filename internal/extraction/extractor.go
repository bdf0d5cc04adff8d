package extraction

import (
	"fmt"
	"log/slog"
	"strings"

	"bolx/internal/domain"
)

// step fills part of a record. Steps run in order; the first error stops the
// pass.
type step struct {
	name string
	run  func(e *Extractor, text string, tables []domain.TableGrid, rec *domain.BOLRecord) error
}

var defaultSteps = []step{
	{name: "bol_number", run: (*Extractor).extractBOLNumber},
	{name: "parties", run: (*Extractor).extractParties},
	{name: "vessel", run: (*Extractor).extractVessel},
	{name: "ports", run: (*Extractor).extractPorts},
	{name: "date", run: (*Extractor).extractDate},
	{name: "weights", run: (*Extractor).extractWeightsAndQuantity},
	{name: "freight", run: (*Extractor).extractFreight},
	{name: "goods", run: (*Extractor).extractGoods},
}

// Extractor turns document text and table grids into a BOLRecord using a
// pattern catalog. It holds no per-document state.
type Extractor struct {
	catalog *Catalog
	steps   []step
}

// NewExtractor creates an Extractor over catalog. A nil catalog selects the
// default catalog.
func NewExtractor(catalog *Catalog) *Extractor {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Extractor{catalog: catalog, steps: defaultSteps}
}

// ExtractAll produces one record for the named document. A failing or
// panicking step marks the record failed and keeps every field set before it.
func (e *Extractor) ExtractAll(text string, tables []domain.TableGrid, name string) (rec domain.BOLRecord) {
	rec = domain.NewRecord(name)

	defer func() {
		if r := recover(); r != nil {
			markFailed(&rec, fmt.Errorf("%v", r))
		}
	}()

	for _, s := range e.steps {
		if err := s.run(e, text, tables, &rec); err != nil {
			markFailed(&rec, fmt.Errorf("%s: %w", s.name, err))
			return rec
		}
	}

	slog.Debug("extractor.ExtractAll: extracted", "document", name, "bol_number", rec.BOLNumber)
	return rec
}

func markFailed(rec *domain.BOLRecord, err error) {
	slog.Warn("extractor.ExtractAll: extraction failed", "document", rec.FileName, "error", err)
	rec.ExtractionFailed = true
	rec.ProcessingNotes = "Extraction error: " + err.Error()
}

// field returns the cleaned first match for a scalar field.
func (e *Extractor) field(fieldType, text string) (string, error) {
	raw, err := e.catalog.first(fieldType, text)
	if err != nil {
		return "", err
	}
	return Clean(raw), nil
}

func (e *Extractor) extractBOLNumber(text string, _ []domain.TableGrid, rec *domain.BOLRecord) error {
	v, err := e.field(FieldBOLNumber, text)
	if err != nil {
		return err
	}
	rec.BOLNumber = v
	return nil
}

func (e *Extractor) extractParties(text string, _ []domain.TableGrid, rec *domain.BOLRecord) error {
	var err error
	if rec.ShipperName, rec.ShipperAddress, err = e.party(FieldShipper, text); err != nil {
		return err
	}
	if rec.ConsigneeName, rec.ConsigneeAddress, err = e.party(FieldConsignee, text); err != nil {
		return err
	}
	rec.NotifyPartyName, rec.NotifyPartyAddress, err = e.party(FieldNotifyParty, text)
	return err
}

// party splits a multi-line block: the first line is the name, the remaining
// non-empty lines form the address.
func (e *Extractor) party(fieldType, text string) (name, address string, err error) {
	raw, err := e.catalog.first(fieldType, text)
	if err != nil {
		return "", "", err
	}
	name, address = splitNameAddress(raw)
	return name, address, nil
}

func splitNameAddress(block string) (name, address string) {
	block = strings.TrimSpace(block)
	if block == "" {
		return "", ""
	}
	first, rest, _ := strings.Cut(block, "\n")
	var lines []string
	for _, l := range strings.Split(rest, "\n") {
		if c := Clean(l); c != "" {
			lines = append(lines, c)
		}
	}
	return Clean(first), strings.Join(lines, "\n")
}

func (e *Extractor) extractVessel(text string, _ []domain.TableGrid, rec *domain.BOLRecord) error {
	var err error
	if rec.VesselName, err = e.field(FieldVessel, text); err != nil {
		return err
	}
	rec.VoyageNumber, err = e.field(FieldVoyage, text)
	return err
}

func (e *Extractor) extractPorts(text string, _ []domain.TableGrid, rec *domain.BOLRecord) error {
	var err error
	if rec.PortOfLoad, err = e.field(FieldPortOfLoad, text); err != nil {
		return err
	}
	rec.PortOfDischarge, err = e.field(FieldPortOfDischarge, text)
	return err
}

// extractDate takes the first literal match of the first date shape that
// matches anywhere in the text.
func (e *Extractor) extractDate(text string, _ []domain.TableGrid, rec *domain.BOLRecord) error {
	for _, p := range e.catalog.fields[FieldDate] {
		got, err := p.capture(text)
		if err != nil {
			return err
		}
		if got != "" {
			rec.DateOfIssue = strings.TrimSpace(got)
			return nil
		}
	}
	return nil
}

// extractWeightsAndQuantity routes each weight pattern by its label: GROSS
// and NET patterns fill their own field, anything else only fills an empty
// gross weight.
func (e *Extractor) extractWeightsAndQuantity(text string, _ []domain.TableGrid, rec *domain.BOLRecord) error {
	for _, p := range e.catalog.fields[FieldWeight] {
		got, err := p.capture(text)
		if err != nil {
			return err
		}
		got = Clean(got)
		if got == "" {
			continue
		}
		label := strings.ToUpper(p.source)
		switch {
		case strings.Contains(label, "GROSS"):
			if rec.GrossWeight == "" {
				rec.GrossWeight = got
			}
		case strings.Contains(label, "NET"):
			if rec.NetWeight == "" {
				rec.NetWeight = got
			}
		case rec.GrossWeight == "":
			rec.GrossWeight = got
		}
	}

	var err error
	rec.QuantityPackages, err = e.field(FieldQuantity, text)
	return err
}

func (e *Extractor) extractFreight(text string, _ []domain.TableGrid, rec *domain.BOLRecord) error {
	v, err := e.field(FieldFreightTerms, text)
	if err != nil {
		return err
	}
	rec.FreightTerms = v
	return nil
}

// extractGoods prefers table columns naming the cargo and falls back to a
// labelled text block.
func (e *Extractor) extractGoods(text string, tables []domain.TableGrid, rec *domain.BOLRecord) error {
	if desc := GoodsFromTables(tables); desc != "" {
		rec.DescriptionOfGoods = desc
		return nil
	}
	v, err := e.field(FieldGoods, text)
	if err != nil {
		return err
	}
	rec.DescriptionOfGoods = v
	return nil
}
