package imputer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"hrdesk/internal/domain"
)

// MinTrainRows is the smallest labeled corpus worth training the
// nearest-neighbour model on; below it training degrades to the
// frequency/median fallback tables.
const MinTrainRows = 20

// neighborhood is the vote size for nearest-neighbour predictions.
const neighborhood = 7

const (
	artifactKNN      = "knn"
	artifactFallback = "fallback"
)

// Artifact is the serialized imputer model: either nearest-neighbour
// training instances with a role label encoding, or plain
// frequency/median tables when training degraded.
type Artifact struct {
	Type string `json:"type"`

	// knn
	Roles        []string    `json:"roles,omitempty"`
	JobFeatures  [][]float64 `json:"job_features,omitempty"`
	JobLabels    []string    `json:"job_labels,omitempty"`
	YearFeatures [][]float64 `json:"year_features,omitempty"`
	YearValues   []float64   `json:"year_values,omitempty"`

	// fallback
	JobByRole        map[string]string `json:"job_by_role,omitempty"`
	JobMostCommon    string            `json:"job_most_common,omitempty"`
	YearMedianByJob  map[string]int    `json:"year_median_by_job,omitempty"`
	GlobalYearMedian int               `json:"global_year_median,omitempty"`
}

// Train builds an artifact from a corpus of complete records. With at
// least MinTrainRows job-labeled rows it trains the nearest-neighbour
// model; otherwise it degrades to frequency/median tables. Retraining is
// always an explicit operation; stale artifacts are never invalidated
// automatically.
func Train(records []domain.ImportRecord) (*Artifact, error) {
	if len(records) == 0 {
		return nil, errors.New("imputer.Train: no records to train from")
	}

	var jobRecords []domain.ImportRecord
	for _, r := range records {
		if strPresent(r.JobTitle) != "" {
			jobRecords = append(jobRecords, r)
		}
	}

	if len(jobRecords) >= MinTrainRows {
		roles := roleVocabulary(records)
		a := &Artifact{Type: artifactKNN, Roles: roles}
		for _, r := range jobRecords {
			a.JobFeatures = append(a.JobFeatures, features(r, roles))
			a.JobLabels = append(a.JobLabels, strPresent(r.JobTitle))
		}
		for _, r := range records {
			if r.YearStart == nil {
				continue
			}
			a.YearFeatures = append(a.YearFeatures, features(r, roles))
			a.YearValues = append(a.YearValues, float64(*r.YearStart))
		}
		return a, nil
	}

	// Degrade: frequency/median tables
	t := tally(records)
	a := &Artifact{
		Type:             artifactFallback,
		JobByRole:        map[string]string{},
		JobMostCommon:    mostCommon(t.globalJobs),
		YearMedianByJob:  map[string]int{},
		GlobalYearMedian: medianInt(t.globalYears),
	}
	for role, jobs := range t.jobsByRole {
		a.JobByRole[role] = mostCommon(jobs)
	}
	for job, years := range t.yearsByJob {
		a.YearMedianByJob[job] = medianInt(years)
	}
	return a, nil
}

// Save writes the artifact as JSON, creating parent directories.
func (a *Artifact) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("imputer.Artifact.Save: %w", err)
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("imputer.Artifact.Save: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("imputer.Artifact.Save: %w", err)
	}
	return nil
}

// Load reads an artifact and wraps it in the matching Imputer variant.
// A missing file means no model is available and returns (nil, nil).
func Load(path string) (Imputer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("imputer.Load: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("imputer.Load: %w", err)
	}
	switch a.Type {
	case artifactKNN:
		return &ModelBacked{artifact: &a}, nil
	case artifactFallback:
		return &FrequencyFallback{artifact: &a}, nil
	default:
		return nil, fmt.Errorf("imputer.Load: unknown artifact type %q", a.Type)
	}
}

// features encodes a record as (name token count, name length, role
// index). Roles unseen at training time map to the stable default index 0.
func features(r domain.ImportRecord, roles []string) []float64 {
	name := strings.TrimSpace(r.Name)
	toks := tokenRe.FindAllString(strings.ToLower(name), -1)
	roleIdx := 0
	role := normalizeRole(r.Role)
	for i, known := range roles {
		if known == role {
			roleIdx = i
			break
		}
	}
	return []float64{float64(len(toks)), float64(len(name)), float64(roleIdx)}
}

func roleVocabulary(records []domain.ImportRecord) []string {
	set := map[string]bool{}
	for _, r := range records {
		set[normalizeRole(r.Role)] = true
	}
	roles := make([]string, 0, len(set))
	for role := range set {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// ModelBacked predicts job titles and start years from the trained
// nearest-neighbour artifact. Job predictions are accepted only above
// JobConfidenceFloor; everything else is left for the heuristic pass.
type ModelBacked struct {
	artifact *Artifact
}

func (m *ModelBacked) Predict(batch []domain.ImportRecord) []domain.ImportRecord {
	a := m.artifact
	out := make([]domain.ImportRecord, 0, len(batch))
	for _, r := range batch {
		rec := r.Clone()
		x := features(rec, a.Roles)

		if strPresent(rec.JobTitle) == "" && len(a.JobFeatures) > 0 {
			label, conf := classify(x, a.JobFeatures, a.JobLabels)
			if conf > JobConfidenceFloor {
				rec.JobTitle = &label
				rec.MarkImputed("job_title", domain.SourceModel, conf)
			}
		}
		if rec.YearStart == nil {
			year := regress(x, a.YearFeatures, a.YearValues)
			rec.YearStart = &year
			rec.MarkImputed("year_start", domain.SourceModel, 0)
		}
		out = append(out, rec)
	}
	return out
}

// classify runs a majority vote over the nearest training instances and
// returns the winning label with its vote fraction.
func classify(x []float64, feats [][]float64, labels []string) (string, float64) {
	idx := nearest(x, feats)
	votes := map[string]int{}
	for _, i := range idx {
		votes[labels[i]]++
	}
	best := mostCommon(votes)
	return best, float64(votes[best]) / float64(len(idx))
}

// regress averages the start years of the nearest training instances,
// rounded to the nearest integer; with no training years it falls back
// to the canonical default rather than failing.
func regress(x []float64, feats [][]float64, values []float64) int {
	if len(feats) == 0 {
		return DefaultYearStart
	}
	idx := nearest(x, feats)
	years := make([]float64, 0, len(idx))
	for _, i := range idx {
		years = append(years, values[i])
	}
	pred := stat.Mean(years, nil)
	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		return DefaultYearStart
	}
	return int(math.Round(pred))
}

// nearest returns the indices of the closest training instances (up to
// the neighborhood size) by euclidean distance.
func nearest(x []float64, feats [][]float64) []int {
	idx := make([]int, len(feats))
	dists := make([]float64, len(feats))
	diff := make([]float64, len(x))
	for i, f := range feats {
		floats.SubTo(diff, x, f)
		idx[i] = i
		dists[i] = floats.Norm(diff, 2)
	}
	sort.SliceStable(idx, func(a, b int) bool { return dists[idx[a]] < dists[idx[b]] })
	if len(idx) > neighborhood {
		idx = idx[:neighborhood]
	}
	return idx
}

// FrequencyFallback predicts from the degraded frequency/median tables.
type FrequencyFallback struct {
	artifact *Artifact
}

func (f *FrequencyFallback) Predict(batch []domain.ImportRecord) []domain.ImportRecord {
	a := f.artifact
	out := make([]domain.ImportRecord, 0, len(batch))
	for _, r := range batch {
		rec := r.Clone()
		if strPresent(rec.JobTitle) == "" {
			jt := a.JobByRole[normalizeRole(rec.Role)]
			if jt == "" {
				jt = a.JobMostCommon
			}
			if jt != "" {
				rec.JobTitle = &jt
				rec.MarkImputed("job_title", domain.SourceModel, 0.5)
			}
		}
		if rec.YearStart == nil {
			year := 0
			if jt := strPresent(rec.JobTitle); jt != "" {
				year = a.YearMedianByJob[jt]
			}
			if year == 0 {
				year = a.GlobalYearMedian
			}
			if year == 0 {
				year = DefaultYearStart
			}
			rec.YearStart = &year
			rec.MarkImputed("year_start", domain.SourceModel, 0)
		}
		out = append(out, rec)
	}
	return out
}
