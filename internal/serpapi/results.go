package serpapi

import (
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/visa-hunter/internal/jobs"
)

type searchResponse struct {
	Error       string           `json:"error"`
	JobsResults []map[string]any `json:"jobs_results"`
}

type result struct {
	Title              string `mapstructure:"title"`
	CompanyName        string `mapstructure:"company_name"`
	Location           string `mapstructure:"location"`
	Description        string `mapstructure:"description"`
	ShareLink          string `mapstructure:"share_link"`
	Link               string `mapstructure:"link"`
	DetectedExtensions struct {
		Salary   string `mapstructure:"salary"`
		PostedAt string `mapstructure:"posted_at"`
	} `mapstructure:"detected_extensions"`
	ApplyOptions []struct {
		Title string `mapstructure:"title"`
		Link  string `mapstructure:"link"`
	} `mapstructure:"apply_options"`
}

func (r *result) applyLink() string {
	for _, opt := range r.ApplyOptions {
		if opt.Link != "" {
			return opt.Link
		}
	}
	if r.ShareLink != "" {
		return r.ShareLink
	}
	return r.Link
}

func (r *result) posting() jobs.Posting {
	return jobs.Posting{
		Title:       r.Title,
		Company:     r.CompanyName,
		Location:    r.Location,
		Description: r.Description,
		Salary:      r.DetectedExtensions.Salary,
		PostedAt:    r.DetectedExtensions.PostedAt,
		ApplyLink:   r.applyLink(),
	}
}

// decodeResults maps raw provider items to postings. Missing fields stay empty and
// scalar values of unexpected types are converted to strings.
func decodeResults(items []map[string]any) ([]jobs.Posting, error) {
	var results []result

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &results,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, err
	}

	postings := make([]jobs.Posting, 0, len(results))
	for i := range results {
		postings = append(postings, results[i].posting())
	}

	return postings, nil
}
