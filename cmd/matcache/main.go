// Command matcache generates the matrix exercise artifacts and inspects the
// memoized product cache.
//
//	matcache artifacts --out ./artifacts --seed 42
//	matcache hash artifacts/hard/A.txt artifacts/hard/C.txt
//	matcache multiply artifacts/hard/A.txt artifacts/hard/B.txt
//	matcache collide
package main

import "log"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.SetFlags(0)
		log.Fatalf("matcache: %v", err)
	}
}
