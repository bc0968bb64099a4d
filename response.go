package oaipmh

import "strings"

// Namespace is the fixed XML namespace of all protocol response
// elements.
const Namespace = "http://www.openarchives.org/OAI/2.0/"

// ResumptionToken is the server issued cursor for the next page of a
// list response, along with optional flow control metadata (3.5).
type ResumptionToken struct {
	Value string `json:"value"`
	// A UTCdatetime after which the token ceases to be valid.
	ExpirationDate string `json:"expirationDate,omitempty"`
	// Position of the first element of this page in the complete
	// list, starting at 0.
	Cursor string `json:"cursor,omitempty"`
	// Cardinality of the complete list, possibly an estimate only.
	CompleteListSize string `json:"completeListSize,omitempty"`
}

// Header identifies an item and carries its datestamp, set memberships
// and deletion status. Datestamps are kept verbatim, repositories
// answer with day or second granularity.
type Header struct {
	Identifier string   `json:"identifier"`
	Datestamp  string   `json:"datestamp"`
	SetSpecs   []string `json:"setSpecs,omitempty"`
	Deleted    bool     `json:"deleted,omitempty"`
}

// Record couples a header with the opaque metadata payload. Metadata
// is the verbatim inner XML of the metadata element; it is empty
// exactly for deleted records.
type Record struct {
	Header   Header   `json:"header"`
	Metadata string   `json:"metadata,omitempty"`
	About    []string `json:"about,omitempty"`
}

// MetadataFormat describes one format the repository or a single item
// can disseminate.
type MetadataFormat struct {
	Prefix    string `json:"prefix"`
	Schema    string `json:"schema"`
	Namespace string `json:"namespace"`
}

// Set is a named, optionally hierarchical grouping of items, usable as
// a selective harvesting filter. Description carries the raw
// setDescription payload, if any.
type Set struct {
	Spec        string `json:"spec"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Identify is the repository self-description.
type Identify struct {
	Name              string   `json:"name"`
	BaseURL           string   `json:"url"`
	ProtocolVersion   string   `json:"version"`
	AdminEmails       []string `json:"emails,omitempty"`
	EarliestDatestamp string   `json:"earliest,omitempty"`
	DeletedRecord     string   `json:"delete,omitempty"`
	Granularity       string   `json:"granularity,omitempty"`
	Compression       []string `json:"compression,omitempty"`
	Descriptions      []string `json:"descriptions,omitempty"`
}

// resumptionTokenNode is part of OAI flow control (3.5).
type resumptionTokenNode struct {
	Value            string `xml:",chardata"`
	ExpirationDate   string `xml:"expirationDate,attr"`
	Cursor           string `xml:"cursor,attr"`
	CompleteListSize string `xml:"completeListSize,attr"`
}

func (n *resumptionTokenNode) value() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Value)
}

func (n *resumptionTokenNode) token() *ResumptionToken {
	if n == nil {
		return nil
	}
	return &ResumptionToken{
		Value:            n.value(),
		ExpirationDate:   n.ExpirationDate,
		Cursor:           n.Cursor,
		CompleteListSize: n.CompleteListSize,
	}
}

// headerNode is the main payload of ListIdentifiers responses and also
// transmitted with every record.
type headerNode struct {
	Status     string   `xml:"status,attr"`
	Identifier string   `xml:"identifier"`
	Datestamp  string   `xml:"datestamp"`
	SetSpecs   []string `xml:"setSpec"`
}

func (n headerNode) header() Header {
	return Header{
		Identifier: n.Identifier,
		Datestamp:  n.Datestamp,
		SetSpecs:   n.SetSpecs,
		Deleted:    n.Status == "deleted",
	}
}

type rawNode struct {
	Raw string `xml:",innerxml"`
}

type recordNode struct {
	Header   headerNode `xml:"header"`
	Metadata rawNode    `xml:"metadata"`
	About    []rawNode  `xml:"about"`
}

func (n recordNode) record() Record {
	rec := Record{Header: n.Header.header()}
	// Deleted items must not carry metadata (2.5.1); whatever a
	// misbehaving server sends there is dropped.
	if !rec.Header.Deleted {
		rec.Metadata = strings.TrimSpace(n.Metadata.Raw)
	}
	for _, a := range n.About {
		rec.About = append(rec.About, strings.TrimSpace(a.Raw))
	}
	return rec
}

type metadataFormatNode struct {
	Prefix    string `xml:"metadataPrefix"`
	Schema    string `xml:"schema"`
	Namespace string `xml:"metadataNamespace"`
}

func (n metadataFormatNode) format() MetadataFormat {
	return MetadataFormat{
		Prefix:    n.Prefix,
		Schema:    n.Schema,
		Namespace: n.Namespace,
	}
}

type setNode struct {
	Spec        string  `xml:"setSpec"`
	Name        string  `xml:"setName"`
	Description rawNode `xml:"setDescription"`
}

func (n setNode) set() Set {
	return Set{
		Spec:        n.Spec,
		Name:        n.Name,
		Description: strings.TrimSpace(n.Description.Raw),
	}
}

type identifyNode struct {
	Name              string    `xml:"repositoryName"`
	BaseURL           string    `xml:"baseURL"`
	ProtocolVersion   string    `xml:"protocolVersion"`
	AdminEmails       []string  `xml:"adminEmail"`
	EarliestDatestamp string    `xml:"earliestDatestamp"`
	DeletedRecord     string    `xml:"deletedRecord"`
	Granularity       string    `xml:"granularity"`
	Compression       []string  `xml:"compression"`
	Descriptions      []rawNode `xml:"description"`
}

func (n *identifyNode) identify() *Identify {
	ident := &Identify{
		Name:              n.Name,
		BaseURL:           n.BaseURL,
		ProtocolVersion:   n.ProtocolVersion,
		AdminEmails:       n.AdminEmails,
		EarliestDatestamp: n.EarliestDatestamp,
		DeletedRecord:     n.DeletedRecord,
		Granularity:       n.Granularity,
		Compression:       n.Compression,
	}
	for _, d := range n.Descriptions {
		ident.Descriptions = append(ident.Descriptions, strings.TrimSpace(d.Raw))
	}
	return ident
}

// envelope is the generic response frame (3.2 XML Response Format). A
// non-error response carries exactly one verb container; Raw fields
// keep the verbatim inner XML for mirroring.
type envelope struct {
	Date    string `xml:"responseDate"`
	Request struct {
		Verb     string `xml:"verb,attr"`
		Endpoint string `xml:",chardata"`
	} `xml:"request"`
	// A response may carry several error elements; the first becomes
	// the failure of the call, see (*Client).dispatch.
	Errors []struct {
		Code    string `xml:"code,attr"`
		Message string `xml:",chardata"`
	} `xml:"error"`
	Identify  *identifyNode `xml:"Identify"`
	GetRecord *struct {
		Record *recordNode `xml:"record"`
	} `xml:"GetRecord"`
	ListMetadataFormats *struct {
		Formats []metadataFormatNode `xml:"metadataFormat"`
	} `xml:"ListMetadataFormats"`
	ListSets *struct {
		Raw   string               `xml:",innerxml"`
		Sets  []setNode            `xml:"set"`
		Token *resumptionTokenNode `xml:"resumptionToken"`
	} `xml:"ListSets"`
	ListIdentifiers *struct {
		Raw     string               `xml:",innerxml"`
		Headers []headerNode         `xml:"header"`
		Token   *resumptionTokenNode `xml:"resumptionToken"`
	} `xml:"ListIdentifiers"`
	ListRecords *struct {
		Raw     string               `xml:",innerxml"`
		Records []recordNode         `xml:"record"`
		Token   *resumptionTokenNode `xml:"resumptionToken"`
	} `xml:"ListRecords"`
}
