package delivery

// Media types declared for retrievable results
const (
	MediaTypeAudio   = "audio/mpeg"
	MediaTypeArchive = "application/zip"
)

// Kind distinguishes individual outputs from the bundled archive
type Kind string

const (
	KindOutput Kind = "output"
	KindBundle Kind = "bundle"
)

// Artifact is one retrievable result of a batch
type Artifact struct {
	Kind      Kind
	Name      string
	Path      string
	MediaType string
	Size      int64
}

// SelectPublishTarget picks the artifact to publish: the bundle when there is
// one, otherwise the only output
func SelectPublishTarget(artifacts []Artifact) (Artifact, error) {
	var outputs []Artifact
	for _, a := range artifacts {
		if a.Kind == KindBundle {
			return a, nil
		}
		outputs = append(outputs, a)
	}
	if len(outputs) != 1 {
		return Artifact{}, ErrNothingToPublish
	}
	return outputs[0], nil
}
