package index

var (
	bCatalog = []byte("catalog") // name -> CatalogMeta json
	bEntries = []byte("entries") // name -> sub-bucket: pos -> Entry json
)
