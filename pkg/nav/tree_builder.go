package nav

import (
	"context"
	"fmt"

	"asconsole/pkg/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	FallbackText = "No manageable subsystems exist."
	HelpText     = "Mostly likely there is no UI provided to manage a particular subsystem. " +
		"It might as well be, that the profile doesn't include any subsystems at all."
	HelpNodeID = "help"
)

// ServerNamesLoader lists messaging provider instances.
type ServerNamesLoader interface {
	LoadServerNames(ctx context.Context) ([]string, error)
}

// TreeBuilder turns installed subsystems into the navigation tree.
type TreeBuilder struct {
	meta    *model.MetaData
	servers ServerNamesLoader
	log     *logrus.Entry
}

func NewTreeBuilder(meta *model.MetaData, servers ServerNamesLoader, log *logrus.Entry) *TreeBuilder {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &TreeBuilder{meta: meta, servers: servers, log: log}
}

// slot holds the links one group item contributes. Messaging slots are
// filled concurrently, everything else is filled up front.
type slot struct {
	links []*Node
}

// Build walks the groups in metadata order and links every enabled item
// whose key matches an installed subsystem. Messaging instance names are
// fetched concurrently and awaited before the tree is returned; a failed
// fetch is logged and contributes no links.
func (b *TreeBuilder) Build(ctx context.Context, treeID, parentPlace string, records []model.SubsystemRecord) *Tree {
	type groupSlots struct {
		group model.SubsystemGroup
		slots []*slot
	}

	var (
		eg       errgroup.Group
		groups   []groupSlots
		included int
	)

	for _, group := range b.meta.Groups() {
		gs := groupSlots{group: group}
		for _, item := range group.Items {
			if item.Disabled {
				continue
			}
			for _, rec := range records {
				if rec.Title != item.Key {
					continue
				}
				included++
				key := item.Presenter
				s := &slot{}
				gs.slots = append(gs.slots, s)

				if key == NameTokenMessaging {
					eg.Go(func() error {
						links, err := b.messagingLinks(ctx, parentPlace, key)
						if err != nil {
							return fmt.Errorf("load %s server names: %w", key, err)
						}
						s.links = links
						return nil
					})
					continue
				}

				s.links = []*Node{{
					ID:         parentPlace + key,
					Label:      item.Name,
					Token:      parentPlace + key,
					Key:        key,
					AutoReveal: key == NameTokenDataSources,
				}}
			}
		}
		groups = append(groups, gs)
	}

	if err := eg.Wait(); err != nil {
		b.log.WithError(err).Error("Failed to load messaging server names")
	}

	var roots []*Node
	for _, gs := range groups {
		node := &Node{ID: "group:" + gs.group.Name, Label: gs.group.Name}
		for _, s := range gs.slots {
			node.Children = append(node.Children, s.links...)
		}
		if len(node.Children) > 0 {
			roots = append(roots, node)
		}
	}

	if included == 0 {
		roots = append(roots, &Node{ID: HelpNodeID, Label: FallbackText, Help: true})
	}

	return NewTree(treeID, roots)
}

func (b *TreeBuilder) messagingLinks(ctx context.Context, parentPlace, key string) ([]*Node, error) {
	if b.servers == nil {
		return nil, nil
	}
	names, err := b.servers.LoadServerNames(ctx)
	if err != nil {
		return nil, err
	}
	links := make([]*Node, 0, len(names))
	for _, server := range names {
		token := parentPlace + key + ";name=" + server
		links = append(links, &Node{
			ID:    token,
			Label: "Provider: " + server,
			Token: token,
			Key:   key,
		})
	}
	return links, nil
}
