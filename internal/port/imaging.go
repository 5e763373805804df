package port

// ImageProcessor transforms raw image bytes for a target platform. The
// transform itself (resize, format conversion) is an external collaborator;
// the orchestrator only consumes this interface.
type ImageProcessor interface {
	Process(data []byte, targetPlatform string) ([]byte, error)
}
