// Package repository defines data access interfaces for the registry.
// Implementations contain SQL only; business rules live in the services.
package repository
