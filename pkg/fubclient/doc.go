// Package fubclient constructs Follow Up Boss API clients.
//
// The package wires the public configuration from pkg/fub to the internal
// transport and resource client implementations:
//
//	cli, err := fubclient.New(&fub.Config{APIKey: "fka_..."})
//	if err != nil { ... }
//	defer cli.Close()
//
// See package fub for the resource client interfaces and pagination helpers.
package fubclient
