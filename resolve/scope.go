package resolve

import (
	"sort"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/debug"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Result is a resolved property.
type Result struct {
	Prop *schema.Property
	// Node is the property node, nil when the key is absent.
	Node *ir.Node
	// Value is the parsed value, valid when OK.
	Value any
	OK    bool
	// Related are nodes consulted besides Node, such as legacy list
	// elements and the nodes of referenced properties.
	Related []*ir.Node
	// Refs are the properties read while resolving, by name.
	Refs   []string
	Crumbs Breadcrumbs
}

// Key returns the key as written in the file, or the declared key when the
// property is absent.
func (r *Result) Key() string {
	if r.Node != nil {
		return r.Node.Key
	}
	return r.Prop.Key
}

type state int

const (
	unresolved state = iota
	resolving
	resolved
)

// Scope resolves declared properties against a dictionary. It also serves
// as the eval.Context of the values it parses. A Scope is not safe for
// concurrent use.
type Scope struct {
	Dict  *ir.Node
	Props []*schema.Property
	// Meta is a second dictionary searched first for properties which may
	// appear in the metadata section.
	Meta *ir.Node
	// Prefix restricts the scope to the keys of a legacy template.
	Prefix  string
	Dialect schema.Dialect
	Missing schema.MissingBehavior
	Sink    diag.Sink
	// DataFunc serves "#Name" references.
	DataFunc func(name string) (any, bool)
	Crumbs   Breadcrumbs
	// Consumed is shared with enclosing scopes so template keys are not
	// reported as unknown.
	Consumed map[*ir.Node]bool

	results map[*schema.Property]*Result
	states  map[*schema.Property]state
	stack   []*Result
}

// NewScope returns a scope resolving props in dict.
func NewScope(dict *ir.Node, props []*schema.Property, sink diag.Sink) *Scope {
	return &Scope{Dict: dict, Props: props, Sink: sink}
}

func (s *Scope) init() {
	if s.results != nil {
		return
	}
	s.results = map[*schema.Property]*Result{}
	s.states = map[*schema.Property]state{}
	if s.Consumed == nil {
		s.Consumed = map[*ir.Node]bool{}
	}
	if s.Sink == nil {
		s.Sink = diag.Discard
	}
}

// Resolve resolves every declared property, in declaration order.
func (s *Scope) Resolve() []*Result {
	s.init()
	res := make([]*Result, 0, len(s.Props))
	for _, p := range s.Props {
		res = append(res, s.Value(p))
	}
	return res
}

// Lookup returns the declared property named key.
func (s *Scope) Lookup(key string) *schema.Property {
	for _, p := range s.Props {
		if p.Matches(key) {
			return p
		}
	}
	return nil
}

// Value resolves p, once.
func (s *Scope) Value(p *schema.Property) *Result {
	s.init()
	switch s.states[p] {
	case resolved:
		return s.results[p]
	case resolving:
		r := &Result{Prop: p}
		if cur := s.current(); cur != nil {
			diag.Report(s.Sink, diag.CircularReference, s.anchor(cur), "property %s refers to itself through %s", p.Key, cur.Prop.Key)
		}
		return r
	}
	s.states[p] = resolving
	r := s.resolve(p)
	s.results[p] = r
	s.states[p] = resolved
	if debug.Resolve() {
		debug.Logf("resolved %s (%s): ok=%v value=%v\n", r.Crumbs, p.Type, r.OK, r.Value)
	}
	return r
}

func (s *Scope) current() *Result {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

func (s *Scope) anchor(r *Result) pos.Range {
	if r.Node != nil {
		return r.Node.KeyRange
	}
	if p := s.Dict.Parent; p != nil && p.Type == ir.PropertyType {
		return p.KeyRange
	}
	rg := s.Dict.Range
	rg.End = rg.Start
	return rg
}

func (s *Scope) resolve(p *schema.Property) *Result {
	r := &Result{Prop: p}
	s.stack = append(s.stack, r)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	var nodes []*ir.Node
	if s.Meta != nil && p.CanBeInMetadata {
		nodes = Find(s.Meta, p, "")
		if len(nodes) != 0 {
			r.Crumbs = Breadcrumbs{}.Section("Metadata")
		}
	}
	dict := s.Dict
	if len(nodes) == 0 {
		nodes = Find(s.Dict, p, s.Prefix)
		r.Crumbs = s.Crumbs
	} else {
		dict = s.Meta
	}
	key := p.Key
	if len(nodes) != 0 {
		r.Node = nodes[0]
		key = r.Node.Key
		if s.Prefix != "" && dict == s.Dict {
			key = key[len(s.Prefix)+1:]
		}
		s.Consumed[r.Node] = true
		for _, d := range nodes[1:] {
			s.Consumed[d] = true
			line := r.Node.KeyRange.Start.Line
			diag.Report(s.Sink, diag.DuplicateProperty, d.KeyRange, "duplicate property %q, first set on line %d", d.Key, line)
		}
	}
	r.Crumbs = r.Crumbs.Property(p.Key)

	a := &schema.ParseArgs{
		Property: r.Node,
		Scope:    dict,
		Key:      key,
		Prefix:   s.Prefix,
		Def:      p,
		Dialect:  s.Dialect,
		Missing:  s.Missing,
		Sink:     s.Sink,
		Related: func(n *ir.Node) {
			s.Consumed[n] = true
			r.Related = append(r.Related, n)
		},
		Eval: s,
	}
	if r.Node != nil {
		a.Node = r.Node.Value
		if p.Deprecated {
			diag.Report(s.Sink, diag.DeprecatedProperty, r.Node.KeyRange, "%s is deprecated", p.Key)
		}
	}
	if r.Node == nil && schema.TrimmingOf(p.Type) == schema.ExactOnly {
		r.Value, r.OK = a.Default(p.Type)
	} else {
		r.Value, r.OK = p.Type.Parse(a)
	}
	return r
}

// ReportRequired reports the required properties of results which were
// found neither under their key nor through related keys.
func (s *Scope) ReportRequired(results []*Result) {
	s.init()
	for _, r := range results {
		if !r.Prop.Required || r.Node != nil || len(r.Related) != 0 {
			continue
		}
		diag.Report(s.Sink, diag.MissingRequired, s.anchor(r), "missing required property %s", schema.Join(s.Prefix, r.Prop.Key))
	}
}

// Find returns the property nodes of dict naming p, in document order. With
// a prefix only keys of the form prefix_key match.
func Find(dict *ir.Node, p *schema.Property, prefix string) []*ir.Node {
	if dict == nil || dict.Type != ir.DictionaryType {
		return nil
	}
	var res []*ir.Node
	for _, c := range dict.Children() {
		if c.Type != ir.PropertyType {
			continue
		}
		key := c.Key
		if prefix != "" {
			if len(key) <= len(prefix)+1 || !strings.EqualFold(key[:len(prefix)], prefix) || key[len(prefix)] != '_' {
				continue
			}
			key = key[len(prefix)+1:]
		}
		if p.Matches(key) {
			res = append(res, c)
		}
	}
	return res
}

// Property implements eval.Context: it resolves the declared property name
// and returns its value.
func (s *Scope) Property(name string) (any, bool) {
	p := s.Lookup(name)
	if p == nil {
		return nil, false
	}
	r := s.Value(p)
	if cur := s.current(); cur != nil && cur != r {
		cur.Refs = append(cur.Refs, p.Key)
		if r.Node != nil {
			cur.Related = append(cur.Related, r.Node)
		}
	}
	if !r.OK {
		return nil, false
	}
	return r.Value, true
}

func (s *Scope) Data(name string) (any, bool) {
	if s.DataFunc == nil {
		return nil, false
	}
	return s.DataFunc(name)
}

// ReportUnknown reports the property nodes of the scope's dictionaries no
// resolved property consumed. skip lists nodes never reported.
func (s *Scope) ReportUnknown(skip ...*ir.Node) {
	s.init()
	s.reportUnknown(s.Dict, false, skip)
	if s.Meta != nil {
		s.reportUnknown(s.Meta, true, skip)
	}
}

func (s *Scope) reportUnknown(dict *ir.Node, meta bool, skip []*ir.Node) {
	if dict == nil || dict.Type != ir.DictionaryType {
		return
	}
outer:
	for _, c := range dict.Children() {
		if c.Type != ir.PropertyType || s.Consumed[c] {
			continue
		}
		for _, n := range skip {
			if n == c {
				continue outer
			}
		}
		if meta {
			if p := s.Lookup(c.Key); p != nil {
				diag.Report(s.Sink, diag.MetadataOnly, c.KeyRange, "%s can not be set in the Metadata section", p.Key)
				continue
			}
		}
		if hint := s.suggest(c.Key); hint != "" {
			diag.Report(s.Sink, diag.UnknownProperty, c.KeyRange, "unknown property %q, did you mean %q?", c.Key, hint)
			continue
		}
		diag.Report(s.Sink, diag.UnknownProperty, c.KeyRange, "unknown property %q", c.Key)
	}
}

func (s *Scope) suggest(key string) string {
	keys := make([]string, 0, len(s.Props))
	for _, p := range s.Props {
		keys = append(keys, p.Keys()...)
	}
	ranks := fuzzy.RankFindFold(key, keys)
	if len(ranks) == 0 {
		ranks = fuzzy.RankFindFold(strings.TrimRight(key, "0123456789_"), keys)
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
