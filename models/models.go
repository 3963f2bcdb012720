// Package models contains the domain entities for the regulation graph.
// These structs use `crud` struct tags to define their mapping to Neo4j nodes
// and properties; the struct name is the node label.
package models

// Node labels and relationship types of the regulation graph.
const (
	LabelPeraturan = "Peraturan"
	LabelTopik     = "Topik"
	LabelBentuk    = "Bentuk"
	LabelTahun     = "Tahun"

	// Status labels attached to a Peraturan node next to its primary label.
	LabelBerlaku        = "Berlaku"
	LabelTidakBerlaku   = "TidakBerlaku"
	LabelTidakDiketahui = "TidakDiketahui"

	RelMemilikiTopik = "MEMILIKI_TOPIK"
	RelBerbentuk     = "BERBENTUK"
	// RelDiterbitkanPrefix is completed with the four-digit year, e.g. DITERBITKAN_2020.
	RelDiterbitkanPrefix = "DITERBITKAN_"
)

// Peraturan is a regulation, identified by its regulation number.
type Peraturan struct {
	// NomorPeraturan is the full regulation identifier, e.g. "UU No. 11 Tahun 2020".
	NomorPeraturan string `crud:"pk,property:nomorPeraturan"`

	// Judul is the title of the regulation.
	Judul string `crud:"property:judul"`

	// No is the sequence number of the regulation within its year.
	No string `crud:"property:no"`

	// Tahun is the year of publication.
	Tahun string `crud:"property:tahun"`
}

// Topik is a topic shared by one or more regulations.
type Topik struct {
	NamaTopik string `crud:"pk,property:namaTopik"`
}

// Bentuk is the form or category of a regulation (e.g. "Undang-Undang").
type Bentuk struct {
	Name string `crud:"pk,property:name"`
}

// Tahun is a publication year node.
type Tahun struct {
	Tahun string `crud:"pk,property:tahun"`
}
