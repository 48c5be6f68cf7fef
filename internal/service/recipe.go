package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SectionValue is the value of one parsed recipe section: either a single
// scalar string (e.g. a title) or an ordered list of fragments (e.g.
// ingredients). It marshals back to whichever shape it was parsed as.
type SectionValue struct {
	Scalar string
	List   []string
}

// IsList reports whether the section held more than one fragment.
func (v SectionValue) IsList() bool {
	return v.List != nil
}

func (v SectionValue) MarshalJSON() ([]byte, error) {
	if v.IsList() {
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Scalar)
}

func (v *SectionValue) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		v.List = list
		v.Scalar = ""
		return nil
	}
	var scalar string
	if err := json.Unmarshal(data, &scalar); err != nil {
		return err
	}
	v.Scalar = scalar
	v.List = nil
	return nil
}

// Strings returns the section content as a slice regardless of shape.
func (v SectionValue) Strings() []string {
	if v.IsList() {
		return v.List
	}
	if v.Scalar == "" {
		return nil
	}
	return []string{v.Scalar}
}

// ParseSections turns the generation service's free-text response into a
// section map. Each line is one labeled section: a name and its content
// separated by the first colon, the content split into fragments on the
// literal "--" delimiter. More than one fragment yields a list value,
// exactly one yields a scalar. A line without a colon fails the whole
// parse; nothing partial is ever returned.
func ParseSections(raw string) (map[string]SectionValue, error) {
	sections := make(map[string]SectionValue)

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		name, content, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("%w: line %q has no section delimiter", ErrMalformedRecipe, line)
		}
		name = strings.TrimSpace(name)
		content = strings.TrimSpace(content)

		var fragments []string
		for _, frag := range strings.Split(content, "--") {
			if trimmed := strings.TrimSpace(frag); trimmed != "" {
				fragments = append(fragments, trimmed)
			}
		}

		if len(fragments) > 1 {
			sections[name] = SectionValue{List: fragments}
		} else {
			sections[name] = SectionValue{Scalar: content}
		}
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedRecipe)
	}
	return sections, nil
}

// RecipeService calls the external recipe generation service and adapts
// its semi-structured text response into typed sections.
type RecipeService struct {
	baseURL string
	path    string
	client  *http.Client
}

func NewRecipeService(baseURL, path string) *RecipeService {
	return &RecipeService{
		baseURL: baseURL,
		path:    path,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// generationEnvelope is the JSON wrapper the upstream service returns.
type generationEnvelope struct {
	Recipe string `json:"recipe"`
}

// GenerateRecipe asks the external service for a recipe built from the
// given ingredient query. Transport failures, non-2xx statuses and
// unparseable payloads all surface as ErrUpstream or ErrMalformedRecipe;
// callers must not charge the user's quota in any of those cases.
func (s *RecipeService) GenerateRecipe(ctx context.Context, ingredients string) (map[string]SectionValue, error) {
	endpoint := s.baseURL + s.path + url.QueryEscape(ingredients)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("recipe upstream request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithField("status", resp.StatusCode).Warn("recipe upstream returned error status")
		return nil, fmt.Errorf("%w: upstream status %d", ErrUpstream, resp.StatusCode)
	}

	var envelope generationEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding envelope: %v", ErrUpstream, err)
	}
	if envelope.Recipe == "" {
		return nil, fmt.Errorf("%w: response has no recipe field", ErrUpstream)
	}

	return ParseSections(envelope.Recipe)
}
