// Package sites loads and validates demand-site input files. The optimizer
// assumes pre-validated input, so everything that reaches it has passed
// through Validate.
package sites

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/greenprism/siteopt/internal/model"
)

// Record is the flat on-disk shape of one demand site, shared by the YAML,
// CSV, XLSX, and HTTP inputs.
type Record struct {
	Name       string  `json:"name" yaml:"name"`
	Lng        float64 `json:"lng" yaml:"lng"`
	Lat        float64 `json:"lat" yaml:"lat"`
	DailyWaste float64 `json:"daily_waste" yaml:"daily_waste"`
}

// Site converts the record to the model type.
func (r Record) Site() model.DemandSite {
	return model.DemandSite{
		Name:       r.Name,
		Location:   model.Coordinate{Lng: r.Lng, Lat: r.Lat},
		DailyWaste: r.DailyWaste,
	}
}

// Load reads a sites file, dispatching on extension (.yaml/.yml, .csv,
// .xlsx), and returns validated demand sites.
func Load(path string) ([]model.DemandSite, error) {
	var (
		records []Record
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		records, err = loadYAML(path)
	case ".csv":
		records, err = loadCSV(path)
	case ".xlsx":
		records, err = loadXLSX(path)
	default:
		return nil, eris.Errorf("sites: unsupported file format %s", path)
	}
	if err != nil {
		return nil, err
	}

	return FromRecords(records)
}

// FromRecords validates records and converts them to demand sites.
func FromRecords(records []Record) ([]model.DemandSite, error) {
	out := make([]model.DemandSite, 0, len(records))
	for _, r := range records {
		out = append(out, r.Site())
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

func loadYAML(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sites: read %s", path)
	}

	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "sites: parse yaml %s", path)
	}
	return records, nil
}

// loadCSV expects a header row of name,lng,lat,daily_waste.
func loadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sites: open %s", path)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "sites: read csv header %s", path)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"name", "lng", "lat", "daily_waste"} {
		if _, ok := idx[col]; !ok {
			return nil, eris.Errorf("sites: csv %s missing column %q", path, col)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "sites: read csv %s line %d", path, line)
		}
		rec, err := recordFromStrings(row[idx["name"]], row[idx["lng"]], row[idx["lat"]], row[idx["daily_waste"]])
		if err != nil {
			return nil, eris.Wrapf(err, "sites: csv %s line %d", path, line)
		}
		records = append(records, rec)
	}
	return records, nil
}

// loadXLSX expects the first sheet with a header row matching the CSV layout.
func loadXLSX(path string) ([]Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sites: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("sites: xlsx %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	var records []Record
	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		cells := rowToStrings(row)
		if len(cells) < 4 || strings.TrimSpace(strings.Join(cells, "")) == "" {
			continue
		}
		rec, err := recordFromStrings(cells[0], cells[1], cells[2], cells[3])
		if err != nil {
			return nil, eris.Wrapf(err, "sites: xlsx %s row %d", path, i+1)
		}
		records = append(records, rec)
	}
	return records, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, 0, len(row.Cells))
	for _, c := range row.Cells {
		cells = append(cells, strings.TrimSpace(c.String()))
	}
	return cells
}

func recordFromStrings(name, lng, lat, waste string) (Record, error) {
	lngV, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return Record{}, eris.Wrap(err, "parse lng")
	}
	latV, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Record{}, eris.Wrap(err, "parse lat")
	}
	wasteV, err := strconv.ParseFloat(strings.TrimSpace(waste), 64)
	if err != nil {
		return Record{}, eris.Wrap(err, "parse daily_waste")
	}
	return Record{Name: strings.TrimSpace(name), Lng: lngV, Lat: latV, DailyWaste: wasteV}, nil
}
