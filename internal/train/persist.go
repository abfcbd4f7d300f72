package train

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Artifact file names inside the model directory.
const (
	VectorizerFile = "vectorizer.json"
	ModelFile      = "model.json"
)

// ErrVocabularyMismatch means the classifier on disk was not trained against
// the vectorizer it was loaded with. Predictions from such a pair would be
// meaningless, so loading refuses outright.
var ErrVocabularyMismatch = errors.New("train: classifier and vectorizer fingerprints disagree")

// Artifacts is the paired vectorizer + classifier set. The pair is persisted
// and loaded together; the shared fingerprint ties the classifier to the
// exact vocabulary it was trained on.
type Artifacts struct {
	Vectorizer  *Vectorizer
	Model       *LogisticRegression
	Fingerprint string
}

// newArtifacts pairs a freshly fitted vectorizer and model under the
// vectorizer's vocabulary fingerprint.
func newArtifacts(v *Vectorizer, m *LogisticRegression) *Artifacts {
	return &Artifacts{Vectorizer: v, Model: m, Fingerprint: fingerprint(v)}
}

// fingerprint hashes the vocabulary so any change in terms or indices yields
// a different value.
func fingerprint(v *Vectorizer) string {
	terms := make([]string, 0, len(v.Vocabulary))
	for term, idx := range v.Vocabulary {
		terms = append(terms, fmt.Sprintf("%s=%d", term, idx))
	}
	sort.Strings(terms)
	sum := sha256.Sum256([]byte(strings.Join(terms, "\n")))
	return hex.EncodeToString(sum[:8])
}

// Predict vectorizes texts with the paired vocabulary and returns a label
// per text. Usable on loaded artifacts without any training state.
func (a *Artifacts) Predict(texts []string) []string {
	return a.Model.Predict(a.Vectorizer.TransformAll(texts))
}

type vectorizerEnvelope struct {
	Fingerprint string      `json:"fingerprint"`
	Vectorizer  *Vectorizer `json:"vectorizer"`
}

type modelEnvelope struct {
	// VectorizerFingerprint is the fingerprint of the vectorizer this model
	// was trained against.
	VectorizerFingerprint string              `json:"vectorizer_fingerprint"`
	Model                 *LogisticRegression `json:"model"`
}

// Save writes the artifact pair into dir, creating it if needed.
func (a *Artifacts) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, VectorizerFile), vectorizerEnvelope{
		Fingerprint: a.Fingerprint,
		Vectorizer:  a.Vectorizer,
	}); err != nil {
		return err
	}

	return writeJSON(filepath.Join(dir, ModelFile), modelEnvelope{
		VectorizerFingerprint: a.Fingerprint,
		Model:                 a.Model,
	})
}

// LoadArtifacts loads the pair from dir and verifies the classifier was
// trained against the vectorizer found next to it.
func LoadArtifacts(dir string) (*Artifacts, error) {
	var ve vectorizerEnvelope
	if err := readJSON(filepath.Join(dir, VectorizerFile), &ve); err != nil {
		return nil, err
	}
	var me modelEnvelope
	if err := readJSON(filepath.Join(dir, ModelFile), &me); err != nil {
		return nil, err
	}

	if ve.Fingerprint == "" || ve.Fingerprint != me.VectorizerFingerprint {
		return nil, ErrVocabularyMismatch
	}
	if ve.Vectorizer == nil || me.Model == nil {
		return nil, fmt.Errorf("train: incomplete artifacts in %s", dir)
	}

	return &Artifacts{
		Vectorizer:  ve.Vectorizer,
		Model:       me.Model,
		Fingerprint: ve.Fingerprint,
	}, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return nil
}
