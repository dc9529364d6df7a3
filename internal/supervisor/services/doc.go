// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

// Package services contains suture.Service adapters for components
// whose lifecycle does not natively match the supervised Serve(ctx)
// pattern, such as net/http's blocking ListenAndServe.
//
// Components that already implement Serve(ctx) error plus String()
// (the engine watchdog, for example) are added to the tree directly
// and need no wrapper here.
package services
