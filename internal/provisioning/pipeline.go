package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/vmprov/internal/provider"
)

// Target pairs a provider with the file declaring its VMs.
type Target struct {
	Provider provider.Provider
	File     string
}

// Recorder receives each declaration's raw lines once its file completes.
type Recorder interface {
	Add(tag string, rawLines []string)
}

// Run processes every target sequentially. The first fatal error stops the
// whole run; later targets are not read. recorder may be nil.
func Run(ctx context.Context, targets []Target, dispatcher *Dispatcher, observer Observer, recorder Recorder) error {
	start := time.Now()
	observer.Printf("Processing %d config file(s)...", len(targets))

	for i, target := range targets {
		targetStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", target.Provider.Spec().DisplayName, i+1, len(targets))

		observer.Printf("[%s] reading %s", name, target.File)

		session := NewSession(target.Provider, target.File, dispatcher, observer)
		decls, err := session.Run(ctx)
		if err != nil {
			observer.Printf("[%s] failed: %v", name, err)
			return err
		}

		if recorder != nil {
			for _, d := range decls {
				recorder.Add(d.Tag, d.RawLines)
			}
		}

		observer.Printf("[%s] completed %d declaration(s) in %v", name, len(decls), time.Since(targetStart).Round(time.Millisecond))
	}

	observer.Printf("Processing completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
