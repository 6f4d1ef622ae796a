// Package core defines the shared language of the buildexport system.
//
// This package contains:
//   - Build graph entities (GraphNode, Kind, SourceRoot, Exclude)
//   - Library coordinates (Coordinate, CoordinateKey, ClasspathEntry)
//   - The versioned export schema (GraphInfo, TargetInfo, PythonSetup, etc.)
//
// The Golden Rule: pkg/core imports ONLY stdlib and the ordered map used by
// the export schema. All other packages depend on core, not the reverse.
package core
