package services

import (
	"context"
	"fmt"
	"strings"
)

// ResolveSelection expands a mixed selection of file keys and folder
// prefixes into the full set of concrete object keys beneath them. Folder
// prefixes (keys ending in "/") are expanded with a flat paginated listing,
// fetching pages strictly in continuation order until the store reports no
// further token. Results are unioned, so a key reachable through several
// selected ancestors appears once. An empty result is a valid outcome.
//
// The store does not guarantee cross-page consistency; a namespace mutated
// mid-enumeration may yield an inconsistent key set.
func ResolveSelection(ctx context.Context, store StoreClient, bucket string, selection []string) (map[string]struct{}, error) {
	resolved := make(map[string]struct{})

	for _, key := range selection {
		if !strings.HasSuffix(key, "/") {
			resolved[key] = struct{}{}
			continue
		}

		token := ""
		for {
			page, err := store.ListPage(ctx, bucket, ListPageOptions{
				Prefix:            key,
				Recursive:         true,
				ContinuationToken: token,
			})
			if err != nil {
				return nil, wrapErr(KindListing, fmt.Sprintf("resolve %s/%s failed", bucket, key), err)
			}
			for _, obj := range page.Objects {
				resolved[obj.Key] = struct{}{}
			}
			if !page.IsTruncated {
				break
			}
			token = page.NextContinuationToken
		}
	}

	return resolved, nil
}
