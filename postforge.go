// Package postforge turns web articles into blog posts. It fetches a page,
// extracts its main content, asks a text-generation model to write a post
// following a versioned template, and stores the result.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, trafilatura/).
package postforge
