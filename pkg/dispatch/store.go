package dispatch

import (
	"context"
	"sort"
	"strings"

	"asconsole/pkg/model"

	"github.com/sirupsen/logrus"
)

// DefaultProfile is the only profile of a standalone server.
const DefaultProfile = "default"

var (
	messagingAddress = MustParseAddress("subsystem=messaging")
	messagingServers = "hornetq-server"
)

// Executor is the part of Client the stores depend on.
type Executor interface {
	ReadChildrenNames(ctx context.Context, addr Address, childType string) ([]string, error)
	ReadResource(ctx context.Context, addr Address) (map[string]any, error)
	WriteAttribute(ctx context.Context, addr Address, name string, value any) error
}

// SubsystemStore lists installed subsystems and messaging servers.
type SubsystemStore struct {
	exec Executor
	log  *logrus.Entry
}

func NewSubsystemStore(exec Executor, log *logrus.Entry) *SubsystemStore {
	return &SubsystemStore{exec: exec, log: log}
}

// LoadSubsystems reads the subsystem names of a profile. A standalone server
// has a single profile, so the name is only logged.
func (s *SubsystemStore) LoadSubsystems(ctx context.Context, profile string) ([]model.SubsystemRecord, error) {
	names, err := s.exec.ReadChildrenNames(ctx, Address{}, "subsystem")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	records := make([]model.SubsystemRecord, 0, len(names))
	for _, name := range names {
		records = append(records, model.SubsystemRecord{Title: name, Key: name})
	}
	if s.log != nil {
		s.log.WithFields(logrus.Fields{"profile": profile, "count": len(records)}).Debug("Loaded subsystems")
	}
	return records, nil
}

// serverNameReserved holds the characters that delimit address segments and
// place token parameters.
const serverNameReserved = "/=;{}"

// LoadServerNames lists the messaging provider instances. Names that cannot
// be embedded in an address or a place token are skipped.
func (s *SubsystemStore) LoadServerNames(ctx context.Context) ([]string, error) {
	names, err := s.exec.ReadChildrenNames(ctx, messagingAddress, messagingServers)
	if err != nil {
		return nil, err
	}
	valid := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || strings.ContainsAny(name, serverNameReserved) {
			if s.log != nil {
				s.log.WithField("server", name).Warn("Skipping messaging server with unsupported name")
			}
			continue
		}
		valid = append(valid, name)
	}
	sort.Strings(valid)
	return valid, nil
}
