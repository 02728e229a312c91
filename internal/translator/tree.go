package translator

import (
	"context"
	"strconv"
	"strings"

	"github.com/pricofy/localizer/internal/document"
	"github.com/pricofy/localizer/internal/domain"
)

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// TranslateTree returns a copy of n with every string leaf translated from
// source into target. Object keys, array positions and all non-string
// values are kept as they are. Empty strings are never sent to the service.
//
// The first failing leaf aborts the walk and a *domain.LeafError is
// returned; no partially translated tree is ever returned.
func TranslateTree(ctx context.Context, svc Service, source, target string, n *document.Node) (*document.Node, error) {
	return translateNode(ctx, svc, source, target, n, "")
}

func translateNode(ctx context.Context, svc Service, source, target string, n *document.Node, path string) (*document.Node, error) {
	switch n.Kind() {
	case document.KindObject:
		fields := n.Fields()
		for i, f := range fields {
			v, err := translateNode(ctx, svc, source, target, f.Value, path+"/"+pointerEscaper.Replace(f.Key))
			if err != nil {
				return nil, err
			}
			fields[i].Value = v
		}
		return document.Object(fields...), nil

	case document.KindArray:
		items := n.Items()
		for i, item := range items {
			v, err := translateNode(ctx, svc, source, target, item, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return document.Array(items...), nil

	case document.KindString:
		if n.Text() == "" {
			return document.String(""), nil
		}
		if err := ctx.Err(); err != nil {
			return nil, &domain.LeafError{Path: path, Err: err}
		}
		translated, err := svc.TranslateText(ctx, source, target, n.Text())
		if err != nil {
			return nil, &domain.LeafError{Path: path, Err: err}
		}
		return document.String(translated), nil
	}

	// Numbers, booleans and null pass through.
	return n, nil
}
