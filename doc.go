// Package main provides the entry point for the club administration service.
// It runs a JSON web API on top of the Fiber framework that lets clubs manage
// their members, mandates, committees, budgets, events, galas, meetings,
// documents and membership payments. Every club-scoped route passes through a
// role and membership based access gate before any data is read or written.
// Persistence is handled with gorm on MySQL, PostgreSQL or SQLite.
package main
