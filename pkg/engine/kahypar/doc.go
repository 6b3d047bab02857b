// Package kahypar binds the KaHyPar C library as a partitioning engine.
//
// The binding is only compiled with the kahypar build tag and requires
// libkahypar and its headers to be installed:
//
//	go build -tags kahypar ./...
//
// Importing the package registers the engine as "kahypar":
//
//	import _ "github.com/matzehuels/hyperpart/pkg/engine/kahypar"
//
// Without the build tag the package is empty and the engine is not registered.
// Configuration uses KaHyPar's own .ini grammar, for example the
// km1_kKaHyPar_sea20.ini file shipped with KaHyPar (see testdata).
package kahypar
