package provisioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/vmprov/internal/fault"
	"github.com/imamik/vmprov/internal/provider"
	"github.com/imamik/vmprov/internal/vmconf"
)

// portKey triggers firewall commands as soon as it is read.
const portKey = "port"

// Session processes one provider file. It is created per file and
// discarded once the file's declarations have run; nothing outlives it
// except the declarations it returns.
type Session struct {
	provider   provider.Provider
	file       string
	dispatcher *Dispatcher
	observer   Observer

	sequence  int // tags accepted so far
	portRules int // port rules issued so far
}

// NewSession creates a session for provider p reading file.
func NewSession(p provider.Provider, file string, dispatcher *Dispatcher, observer Observer) *Session {
	observer = observer.WithFields(map[string]string{"file": file})
	return &Session{
		provider:   p,
		file:       file,
		dispatcher: dispatcher.WithObserver(observer),
		observer:   observer,
	}
}

// Header implements vmconf.Handler: tags are checked the moment they are read.
func (s *Session) Header(_ context.Context, tag string, ordinal int) error {
	if err := provider.ValidateTag(s.provider.Spec(), tag, ordinal); err != nil {
		return s.annotate(err)
	}
	s.sequence = ordinal
	return nil
}

// Field implements vmconf.Handler: a port line opens the port right away.
func (s *Session) Field(ctx context.Context, d *vmconf.Declaration, key, value string) error {
	if key != portKey {
		return nil
	}
	phase := s.provider.Spec().DisplayName

	cmds, err := s.provider.PortCommands(d, value, s.portRules+1)
	if err != nil {
		if fault.Is(err, fault.KindPortPrerequisiteMissing) {
			LogWarning(s.observer, phase, d.Tag, s.annotate(err).Error())
			return nil
		}
		return s.annotate(err)
	}

	s.portRules++
	for _, cmd := range cmds {
		if err := s.dispatcher.Auxiliary(ctx, phase, cmd); err != nil {
			return err
		}
	}
	return nil
}

// Run reads the file and executes its declarations in file order. It stops
// at the first fatal error; declarations before it have already run.
func (s *Session) Run(ctx context.Context) ([]*vmconf.Declaration, error) {
	spec := s.provider.Spec()

	decls, err := vmconf.ReadFile(ctx, s.file, spec.AllowList(), s)
	if err != nil {
		return nil, s.annotate(err)
	}
	s.observer.Event(Event{
		Type:    EventDeclarationRead,
		Phase:   spec.DisplayName,
		Message: fmt.Sprintf("read %d declaration(s)", len(decls)),
	})

	for i, d := range decls {
		s.observer.Progress(spec.DisplayName, i+1, len(decls))
		if err := s.execute(ctx, d); err != nil {
			return nil, err
		}
	}
	return decls, nil
}

// execute validates a declaration and dispatches its creation command.
// Required fields are checked before prerequisites, field formats after.
// In plan mode every check runs before anything is printed.
func (s *Session) execute(ctx context.Context, d *vmconf.Declaration) error {
	spec := s.provider.Spec()
	planning := s.dispatcher.Planning()

	if planning {
		if err := provider.Validate(s.provider, d); err != nil {
			return s.annotate(err)
		}
	} else if err := provider.RequireFields(spec, d); err != nil {
		return s.annotate(err)
	}
	for _, p := range s.provider.Prerequisites(d) {
		if err := s.dispatcher.Ensure(ctx, spec.DisplayName, d.Tag, p); err != nil {
			return s.annotate(err)
		}
	}
	if !planning {
		if err := s.provider.CheckFields(d); err != nil {
			return s.annotate(err)
		}
	}

	return s.dispatcher.Primary(ctx, s.provider, d, s.provider.CreateCommand(d))
}

// annotate fills in the session's file on fault errors that lack one.
func (s *Session) annotate(err error) error {
	var fe *fault.Error
	if errors.As(err, &fe) && fe.File == "" {
		fe.File = s.file
	}
	return err
}
