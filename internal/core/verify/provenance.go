package verify

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/openrdap/rdap"

	"github.com/factlens/factlens/internal/config"
	"github.com/factlens/factlens/internal/core"
)

// ProvenanceCache persists RDAP lookups so repeated results citing the same
// source do not re-query registries.
type ProvenanceCache interface {
	GetCachedProvenance(ctx context.Context, domain string) (map[string]any, error)
	SetCachedProvenance(ctx context.Context, domain string, data map[string]any, ttl time.Duration) error
}

// Annotator enriches result sources with domain registration metadata from
// RDAP. Lookups are best-effort: failures leave the source unannotated.
type Annotator struct {
	Client   *rdap.Client
	Cache    ProvenanceCache
	Enabled  bool
	Timeout  time.Duration
	CacheTTL time.Duration
}

// NewAnnotator builds an annotator from the provenance configuration.
func NewAnnotator(cfg config.ProvenanceConfig, cache ProvenanceCache) *Annotator {
	return &Annotator{
		Client:   &rdap.Client{},
		Cache:    cache,
		Enabled:  cfg.Enabled,
		Timeout:  cfg.Timeout,
		CacheTTL: cfg.CacheTTL,
	}
}

// Annotate fills in Provenance for each source whose domain can be resolved.
func (a *Annotator) Annotate(ctx context.Context, result *core.VerificationResult) {
	if a == nil || !a.Enabled || result == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for i := range result.Sources {
		domain := sourceDomain(result.Sources[i].URL)
		if domain == "" {
			continue
		}

		if data := a.lookup(ctx, domain); len(data) > 0 {
			result.Sources[i].Provenance = data
		}
	}
}

func (a *Annotator) lookup(ctx context.Context, domain string) map[string]any {
	if a.Cache != nil {
		if cached, err := a.Cache.GetCachedProvenance(ctx, domain); err == nil && cached != nil {
			return cached
		}
	}

	client := a.Client
	if client == nil {
		client = &rdap.Client{}
	}

	req := rdap.NewDomainRequest(domain)
	if a.Timeout > 0 {
		req.Timeout = a.Timeout
	}
	req = req.WithContext(ctx)

	resp, err := client.Do(req)
	if err != nil {
		return nil
	}

	rdapDomain, ok := resp.Object.(*rdap.Domain)
	if !ok {
		return nil
	}

	data := registrationData(rdapDomain)
	if len(data) == 0 {
		return nil
	}

	if a.Cache != nil && a.CacheTTL > 0 {
		_ = a.Cache.SetCachedProvenance(ctx, domain, data, a.CacheTTL)
	}

	return data
}

// registrationData extracts the registration facts worth surfacing alongside
// a cited source.
func registrationData(domain *rdap.Domain) map[string]any {
	if domain == nil {
		return nil
	}

	data := map[string]any{}
	if len(domain.Status) > 0 {
		data["status"] = domain.Status
	}

	if registrar := findRegistrar(domain); registrar != "" {
		data["registrar"] = registrar
	}

	if registered := findEventDate(domain.Events, "registration"); registered != "" {
		data["registered"] = registered
	}
	if expiry := findEventDate(domain.Events, "expiration"); expiry != "" {
		data["expiration"] = expiry
	}

	return data
}

func findRegistrar(domain *rdap.Domain) string {
	if domain == nil {
		return ""
	}

	for _, entity := range domain.Entities {
		for _, role := range entity.Roles {
			if role == "registrar" && entity.VCard != nil {
				return entity.VCard.Name()
			}
		}
	}

	return ""
}

func findEventDate(events []rdap.Event, action string) string {
	for _, event := range events {
		if event.Action == action {
			return event.Date
		}
	}
	return ""
}

// sourceDomain extracts the registrable host from a source URL, dropping any
// www prefix.
func sourceDomain(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := parsed.Hostname()
	if host == "" {
		// Bare domains parse as opaque paths.
		host = strings.Split(parsed.Path, "/")[0]
	}

	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if !strings.Contains(host, ".") {
		return ""
	}

	return host
}
