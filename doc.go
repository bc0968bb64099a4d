// Package oaipmh implements a client for OAI-PMH, the Open Archives
// Initiative Protocol for Metadata Harvesting. OAI-PMH is a low-barrier,
// HTTP based mechanism for repository interoperability: a repository
// exposes metadata records, a harvester collects them, page by page,
// chained by resumption tokens.
//
// The client covers all six protocol verbs. List responses are exposed as
// lazy iterators, one HTTP request per page:
//
//	client := oaipmh.NewClient("https://export.arxiv.org/oai2")
//	it := client.ListRecords(ctx, "oai_dc", oaipmh.Selection{})
//	for it.Next() {
//		fmt.Println(it.Item().Header.Identifier)
//	}
//	if err := it.Err(); err != nil {
//		log.Fatal(err)
//	}
//
// Metadata payloads are passed through verbatim, this package never
// interprets them. A command line tool is included under cmd/oaipmh.
package oaipmh
