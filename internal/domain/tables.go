package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	&SysUser{},
	// Catalog
	&Collection{},
	&Product{},
	&ProductImage{},
	// Store
	&Customer{},
	&Cart{},
	&CartItem{},
	&Order{},
	&OrderItem{},
}
