package models

import (
	"strings"
)

// SavedByDriver values for DeliveryRecord. A record starts editable and is
// locked once the driver finalizes it; the transition is one-way on the
// device and only a fresh pull from the server can produce an editable copy
// again.
const (
	RecordEditable = "0"
	RecordLocked   = "1"
)

// ProductLine is one manifest row for an institution. Requested quantity and
// the descriptive fields come from the server and are never edited locally;
// Delivered is what the driver enters.
type ProductLine struct {
	ID        string `json:"dipid"`
	Name      string `json:"producto"`
	Brand     string `json:"marca"`
	Unit      string `json:"unidad_medida"`
	Requested string `json:"cantidad"`
	Delivered string `json:"entregado"`
}

// DeliveryRecord is the per-institution delivery assignment. JSON field names
// follow the remote service contract.
type DeliveryRecord struct {
	DistInstID   string        `json:"dist_inst_id"`
	Institution  string        `json:"institucion"`
	Code         string        `json:"clave"`
	Address      string        `json:"domicilio"`
	Municipality string        `json:"municipio"`
	Phone        string        `json:"telefono"`
	Locality     string        `json:"localidad"`
	Products     []ProductLine `json:"productos"`
	Observations string        `json:"observaciones"`
	ReceivedBy   string        `json:"quien_recibe"`
	SavedByDriver string       `json:"save_chofer"`
	SavedAt      string        `json:"fecha_guardado"`
}

// Locked reports whether the record has been finalized by the driver.
func (r *DeliveryRecord) Locked() bool {
	return r.SavedByDriver == RecordLocked
}

// AttachmentSet holds the captured photos staged for one institution.
// LocalPaths reference the stored binaries; DisplayPaths are URIs the UI can
// render directly. The two are kept index-aligned.
type AttachmentSet struct {
	InstID       string   `json:"inst_id"`
	LocalPaths   []string `json:"imagenes"`
	DisplayPaths []string `json:"imagenes_mostrar"`
}

// Empty reports whether the set has no stored images left.
func (s *AttachmentSet) Empty() bool {
	return len(s.LocalPaths) == 0
}

// FilterRecords returns the records whose institution name contains the
// search term, case-insensitively. An empty term returns the input unchanged.
func FilterRecords(records []DeliveryRecord, term string) []DeliveryRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}

	var out []DeliveryRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Institution), term) {
			out = append(out, r)
		}
	}
	return out
}
