package services

import (
	"strconv"
	"strings"

	"carvalu/config"
	"carvalu/models"
	"carvalu/utils"
)

// column lists the accepted header names for one listing field, preferred first.
type column struct {
	names    []string
	required bool
}

var (
	colID           = column{names: []string{"adIdUnique", "id"}}
	colMake         = column{names: []string{"make"}, required: true}
	colModel        = column{names: []string{"model"}, required: true}
	colTrim         = column{names: []string{"trim"}}
	colDrivetrain   = column{names: []string{"drivetrain"}}
	colBodyType     = column{names: []string{"bodytype", "splashBodyType"}}
	colOdometer     = column{names: []string{"odometer"}, required: true}
	colPrice        = column{names: []string{"price"}, required: true}
	colYear         = column{names: []string{"year"}, required: true}
	colFetchDate    = column{names: []string{"fetchdate"}, required: true}
	colTransmission = column{names: []string{"transmission", "transmission_manual"}, required: true}
	colLocation     = column{names: []string{"url", "province"}, required: true}
	colDealer       = column{names: []string{"dealerCoName"}}
	colDescription  = column{names: []string{"description"}}
)

// Projector keeps the columns the pipeline needs and screens out rows from
// blocked dealers or whose description reports damage.
type Projector struct {
	tables config.MappingTables
	logger *utils.Logger
}

// NewProjector creates a Projector using the given tables.
func NewProjector(tables config.MappingTables, logger *utils.Logger) *Projector {
	return &Projector{tables: tables, logger: logger}
}

// projection maps each field to its index in the source table, -1 when absent.
type projection struct {
	id, make, model, trim, drivetrain, bodytype   int
	odometer, price, year, fetchdate              int
	transmission, url, province, dealer, describe int
	transmissionIsFlag                            bool
}

// Project resolves the table header and returns one RawListing per kept row.
// A missing required column is a structural error.
func (p *Projector) Project(table *models.Table) ([]models.RawListing, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, ErrEmptyBatch
	}

	proj, err := resolve(table)
	if err != nil {
		return nil, err
	}

	dealers := make(map[string]struct{}, len(p.tables.BlockedDealers))
	for _, d := range p.tables.BlockedDealers {
		dealers[strings.ToLower(d)] = struct{}{}
	}

	out := make([]models.RawListing, 0, len(table.Rows))
	screened := 0
	for _, row := range table.Rows {
		if p.blocked(row, proj, dealers) {
			screened++
			continue
		}
		out = append(out, proj.listing(row))
	}

	if screened > 0 {
		p.logger.Debug("[project] Screened out %d rows (blocked dealer or damage report)", screened)
	}
	return out, nil
}

func (p *Projector) blocked(row []string, proj projection, dealers map[string]struct{}) bool {
	if dealer := strings.ToLower(strings.TrimSpace(cell(row, proj.dealer))); dealer != "" {
		if _, ok := dealers[dealer]; ok {
			return true
		}
	}
	desc := strings.ToLower(cell(row, proj.describe))
	if desc == "" {
		return false
	}
	for _, word := range p.tables.DamageKeywords {
		if strings.Contains(desc, word) {
			return true
		}
	}
	return false
}

func resolve(table *models.Table) (projection, error) {
	var missing error
	find := func(c column) int {
		for _, name := range c.names {
			if i := table.Index(name); i >= 0 {
				return i
			}
		}
		if c.required && missing == nil {
			missing = &MissingColumnError{Column: c.names[0], Alternatives: c.names[1:]}
		}
		return -1
	}

	proj := projection{
		id:           find(colID),
		make:         find(colMake),
		model:        find(colModel),
		trim:         find(colTrim),
		drivetrain:   find(colDrivetrain),
		bodytype:     find(colBodyType),
		odometer:     find(colOdometer),
		price:        find(colPrice),
		year:         find(colYear),
		fetchdate:    find(colFetchDate),
		transmission: find(colTransmission),
		url:          table.Index("url"),
		province:     table.Index("province"),
		dealer:       find(colDealer),
		describe:     find(colDescription),
	}
	find(colLocation)
	if missing != nil {
		return projection{}, missing
	}

	proj.transmissionIsFlag = table.Index("transmission") < 0
	return proj, nil
}

func (proj projection) listing(row []string) models.RawListing {
	transmission := cell(row, proj.transmission)
	if proj.transmissionIsFlag {
		// Re-read cleaned output: the column holds a boolean flag.
		transmission = "automatic"
		if manual, err := strconv.ParseBool(strings.TrimSpace(cell(row, proj.transmission))); err == nil && manual {
			transmission = "manual"
		}
	}

	return models.RawListing{
		ID:           cell(row, proj.id),
		Make:         cell(row, proj.make),
		Model:        cell(row, proj.model),
		Trim:         cell(row, proj.trim),
		Transmission: transmission,
		Drivetrain:   cell(row, proj.drivetrain),
		BodyType:     cell(row, proj.bodytype),
		Province:     cell(row, proj.province),
		Odometer:     cell(row, proj.odometer),
		Price:        cell(row, proj.price),
		Year:         cell(row, proj.year),
		URL:          cell(row, proj.url),
		FetchDate:    cell(row, proj.fetchdate),
	}
}

// cell returns row[i], or "" when the column is absent or the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
