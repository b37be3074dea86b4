package icons

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bkds/internal/cache"
	"bkds/internal/domain"
	"bkds/internal/loader"
)

// Icon type names used to group the dashboard toolbars.
const (
	TypePowerCenter   = "power_center_control"
	TypeDesktopCtrl   = "desktop_control_icon"
	TypeGalleryFilter = "desktop_app_search"
	TypeToolbarSearch = "toolbar_search"
)

// DataLoader reads a JSON document into v.
type DataLoader interface {
	Load(ctx context.Context, kind loader.Kind, p loader.Params, v any) error
}

// Groups are the icon sets shown on the home dashboard.
type Groups struct {
	PowerCenter   []domain.Icon `json:"powerCenterIcons"`
	DesktopCtrl   []domain.Icon `json:"desktopControlIcons"`
	GalleryFilter []domain.Icon `json:"photoGalleryFilterIcons"`
	Toolbar       []domain.Icon `json:"toolbarIconsData"`
}

// Service serves icon definitions from the cache. The cached list is shared
// between requests; every method that rewrites URLs works on copies.
type Service struct {
	cache  *cache.Store
	loader DataLoader
	picker TermPicker
	pools  Pools
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewService wires an icon service. A nil picker means RandomPicker.
func NewService(store *cache.Store, ld DataLoader, picker TermPicker, pools Pools, ttl time.Duration, logger logrus.FieldLogger) *Service {
	if picker == nil {
		picker = RandomPicker{}
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		cache:  store,
		loader: ld,
		picker: picker,
		pools:  pools.WithDefaults(),
		ttl:    ttl,
		log:    logger.WithField("component", "icons"),
	}
}

// Icons returns every icon definition.
func (s *Service) Icons(ctx context.Context) ([]domain.Icon, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Kind: "icons"}, s.ttl, func(ctx context.Context) ([]domain.Icon, error) {
		s.log.Info("Reading icons data from file and updating cache")
		var list []domain.Icon
		if err := s.loader.Load(ctx, loader.KindIcons, loader.Params{}, &list); err != nil {
			return nil, fmt.Errorf("loading icons: %w", err)
		}
		return list, nil
	})
}

// ByType returns the icons whose type starts with prefix. An empty prefix
// matches every icon.
func (s *Service) ByType(ctx context.Context, prefix string) ([]domain.Icon, error) {
	all, err := s.Icons(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(ic domain.Icon) bool { return strings.HasPrefix(ic.Type, prefix) }), nil
}

// Groups splits the icon list into the dashboard toolbars.
func (s *Service) Groups(ctx context.Context) (Groups, error) {
	all, err := s.Icons(ctx)
	if err != nil {
		return Groups{}, err
	}
	return Groups{
		PowerCenter:   filter(all, func(ic domain.Icon) bool { return ic.Type == TypePowerCenter }),
		DesktopCtrl:   filter(all, func(ic domain.Icon) bool { return ic.Type == TypeDesktopCtrl }),
		GalleryFilter: filter(all, func(ic domain.Icon) bool { return strings.HasPrefix(ic.Type, TypeGalleryFilter) }),
		Toolbar:       filter(all, func(ic domain.Icon) bool { return strings.HasPrefix(ic.Type, TypeToolbarSearch) }),
	}, nil
}

// Toolbar returns the search toolbar icons with their templates filled by
// Personalize. DataOriginalURL keeps the template so the client can refill
// it with a spoken search.
func (s *Service) Toolbar(ctx context.Context) ([]domain.Icon, error) {
	list, err := s.ByType(ctx, TypeToolbarSearch)
	if err != nil {
		return nil, err
	}
	for i := range list {
		tmpl := list[i].URL
		list[i].DataOriginalURL = tmpl
		if tmpl != "" {
			list[i].URL = Personalize(tmpl, s.picker, s.pools)
		}
	}
	return list, nil
}

// Hosts returns the set of hosts that icons link to.
func (s *Service) Hosts(ctx context.Context) (map[string]struct{}, error) {
	all, err := s.Icons(ctx)
	if err != nil {
		return nil, err
	}
	hosts := make(map[string]struct{}, len(all))
	for _, ic := range all {
		u, err := url.Parse(strings.ReplaceAll(ic.URL, Placeholder, ""))
		if err != nil || u.Host == "" {
			continue
		}
		hosts[strings.ToLower(u.Hostname())] = struct{}{}
	}
	return hosts, nil
}

// filter copies matching icons into a new slice.
func filter(list []domain.Icon, keep func(domain.Icon) bool) []domain.Icon {
	out := make([]domain.Icon, 0, len(list))
	for _, ic := range list {
		if keep(ic) {
			out = append(out, ic)
		}
	}
	return out
}
