// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package marketplace is the client for the Atelier marketplace REST
// API. Client is the unauthenticated entry point (login, register);
// Session wraps it with a bearer token for everything else — ideas,
// projects, proposals, files, messages, ratings, dashboard stats.
//
// Every outbound call funnels through one request chokepoint that
// attaches the credential and decodes error bodies into *APIError.
// A 401 on any call triggers the client's auth-failure handler
// synchronously, before the caller sees the error, so session
// invalidation is ordered ahead of any code that could retry with a
// stale token. The server is authoritative for every rule the client
// checks; nothing in this package is a security boundary.
package marketplace
