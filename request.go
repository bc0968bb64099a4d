package oaipmh

import "net/url"

// Verb is one of the six protocol request types (3.2, 4. Protocol
// Requests and Responses).
type Verb string

const (
	VerbIdentify            Verb = "Identify"
	VerbListMetadataFormats Verb = "ListMetadataFormats"
	VerbListSets            Verb = "ListSets"
	VerbGetRecord           Verb = "GetRecord"
	VerbListIdentifiers     Verb = "ListIdentifiers"
	VerbListRecords         Verb = "ListRecords"
)

// Values is a thin wrapper around url.Values.
type Values struct {
	url.Values
}

// NewValues returns a new empty struct.
func NewValues() Values {
	return Values{url.Values{}}
}

// AddIfExists adds a key value pair only if value is nonempty.
func (v Values) AddIfExists(key, value string) {
	if value != "" {
		v.Add(key, value)
	}
}

// Selection restricts a list harvest. Zero fields are omitted from the
// request entirely.
type Selection struct {
	// From and Until bound the datestamps of the harvested items,
	// inclusive on both ends.
	From  Datestamp
	Until Datestamp
	// Set is a colon delimited set spec path.
	Set string
	// ResumptionToken resumes a prior traversal. It is an exclusive
	// argument: when set, every other selection parameter and the
	// metadata prefix are suppressed on the first request already.
	ResumptionToken string
}

// values serializes the selection along with the metadata prefix.
func (s Selection) values(prefix string) Values {
	vals := NewValues()
	vals.AddIfExists("metadataPrefix", prefix)
	vals.AddIfExists("from", s.From.String())
	vals.AddIfExists("until", s.Until.String())
	vals.AddIfExists("set", s.Set)
	return vals
}

// buildValues assembles the wire parameters for one request. A
// resumption token is an exclusive argument (3.5): it suppresses every
// selection parameter, only the verb travels along.
func buildValues(verb Verb, token string, params Values) url.Values {
	values := url.Values{}
	values.Add("verb", string(verb))
	if token != "" {
		values.Add("resumptionToken", token)
		return values
	}
	for k, vs := range params.Values {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	return values
}
