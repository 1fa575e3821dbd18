package domain

// Tables in migration order, referenced tables first
var Tables = []interface{}{
	&Region{},
	&Product{},
	&Order{},
}
