// Package fub provides types, interfaces, and helpers for working with the
// Follow Up Boss API.
//
// # Overview
//
// The fub package defines the public surface of the client: configuration,
// the error taxonomy, query parameters, and the interfaces for
// resource-oriented clients (e.g., PeopleClient, DealsClient). A concrete
// implementation of these clients is provided by the fubclient package,
// which wires configuration, transport, session management, and retry
// behavior. Most consumers should import fubclient to construct a client and
// then interact with the resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/realworks-io/fub-client/pkg/fub"
//	  "github.com/realworks-io/fub-client/pkg/fubclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := fubclient.New(&fub.Config{APIKey: "fka_..."})
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  // List the first page of people
//	  page, err := cli.People().List(ctx, fub.NewQueryParams().WithLimit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = page
//	}
//
// # Pagination
//
// The API caps offset pagination at 2000 items. SmartPaginator defeats the
// cap by trying traversal strategies in order (offset, nextLink, dateRange)
// and deduplicating items by id across all pages:
//
//	people, err := cli.People().ListAll(ctx, nil)
//	if err != nil { /* handle error */ }
//	_ = people
//
// # Pond extraction
//
// The server-side pond filter is unreliable. PondFilterPaginator verifies
// filtered results against the items' own membership data and falls back to
// filtering the full collection locally:
//
//	members, err := cli.People().ListByPond(ctx, 134, nil)
//
// # Errors
//
// API errors are represented by APIError with a closed ErrorKind taxonomy.
// Helpers such as IsAuthError, IsNotFound, and IsRateLimited make it easy to
// branch on common cases. Only auth-classified failures are retried
// automatically; the session is reinitialized between attempts.
package fub
