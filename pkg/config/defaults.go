package config

import "time"

const (
	DefaultV1URL     = "https://search.censys.io/api/v1"
	DefaultV2URL     = "https://search.censys.io/api/v2"
	DefaultIPEchoURL = "https://api.ipify.org?format=json"
	DefaultTimeout   = 30 * time.Second

	// MaxV1Fields is the most fields the v1 search endpoints accept in a single query.
	MaxV1Fields = 20
)

// DefaultFields are appended to the user supplied fields of a v1 search unless --overwrite is set.
var DefaultFields = map[string][]string{
	"ipv4": {
		"updated_at",
		"protocols",
		"metadata.description",
		"autonomous_system.name",
		"23.telnet.banner.banner",
		"80.http.get.title",
		"80.http.get.metadata.description",
		"8080.http.get.metadata.description",
		"8888.http.get.metadata.description",
		"443.https.get.metadata.description",
		"443.https.get.title",
		"443.https.tls.certificate.parsed.subject_dn",
		"443.https.tls.certificate.parsed.names",
		"443.https.tls.certificate.parsed.subject.common_name",
		"443.https.tls.certificate.parsed.extensions.subject_alt_name.dns_names",
	},
	"certs": {
		"metadata.updated_at",
		"parsed.issuer.common_name",
		"parsed.names",
		"parsed.serial_number",
		"parsed.self_signed",
		"parsed.subject.common_name",
		"parsed.validity.start",
		"parsed.validity.end",
		"parsed.validity.length",
		"metadata.source",
		"metadata.seen_in_scan",
		"tags",
	},
	"websites": {
		"443.https.tls.version",
		"alexa_rank",
		"domain",
		"ports",
		"protocols",
		"tags",
		"updated_at",
	},
}

// DefaultRisks is the HNRI classification table. Services not listed in either tier are
// reported as medium risks.
var DefaultRisks = &Risks{
	High:   []string{"TELNET", "REDIS", "POSTGRES", "VNC"},
	Medium: []string{"SSH", "HTTP", "HTTPS"},
}
