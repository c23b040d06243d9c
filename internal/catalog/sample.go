package catalog

import "github.com/temcen/laptop-advisor/pkg/models"

func laptop(id, name, brand string, price float64, cpu, ram, storage, gpu string) models.CandidateProduct {
	return models.CandidateProduct{
		ID:    id,
		Name:  name,
		Brand: brand,
		Price: price,
		Specs: models.LaptopSpecs{Processor: cpu, RAM: ram, Storage: storage, Graphics: gpu},
	}
}

// SampleLaptops is a small catalog used to seed local databases.
func SampleLaptops() []models.CandidateProduct {
	return []models.CandidateProduct{
		laptop("asus-rog-g14-2024", "ASUS ROG Zephyrus G14 2024", "Asus", 1599, "AMD Ryzen 9 8945HS", "32GB LPDDR5X", "1TB NVMe SSD", "NVIDIA RTX 4070"),
		laptop("asus-tuf-a15-2023", "ASUS TUF Gaming A15 2023", "Asus", 1099, "AMD Ryzen 7 7735HS", "16GB DDR5", "512GB SSD", "NVIDIA RTX 4060"),
		laptop("asus-vivobook-15-2023", "ASUS Vivobook 15 2023", "Asus", 549, "Intel Core i5-1335U", "8GB", "512GB SSD", "Intel Iris Xe"),
		laptop("lenovo-legion-5-2024", "Lenovo Legion 5 2024", "Lenovo", 1399, "Intel Core i7-14650HX", "16GB DDR5", "1TB SSD", "NVIDIA RTX 4060"),
		laptop("lenovo-thinkpad-x1-2024", "Lenovo ThinkPad X1 Carbon 2024", "Lenovo", 1899, "Intel Core Ultra 7 155U", "32GB LPDDR5X", "1TB SSD", "Intel Graphics"),
		laptop("lenovo-ideapad-3-2022", "Lenovo IdeaPad 3 2022", "Lenovo", 429, "Intel Core i3-1215U", "8GB", "256GB SSD", "Intel UHD Graphics"),
		laptop("dell-xps-15-2024", "Dell XPS 15 2024", "Dell", 2199, "Intel Core i9-13900H", "32GB DDR5", "1TB SSD", "NVIDIA RTX 4060"),
		laptop("dell-inspiron-14-2023", "Dell Inspiron 14 2023", "Dell", 749, "Intel Core i5-1340P", "16GB", "512GB SSD", "Intel Iris Xe"),
		laptop("alienware-m18-2024", "Alienware m18 R2 2024", "Alienware", 2899, "Intel Core i9-14900HX", "32GB DDR5", "2TB SSD", "NVIDIA RTX 4090"),
		laptop("apple-mbp-14-m3", "Apple MacBook Pro 14 M3 Pro 2023", "Apple", 1999, "Apple M3 Pro", "18GB unified", "512GB SSD", "14-core GPU"),
		laptop("apple-mba-13-m2", "Apple MacBook Air 13 M2 2022", "Apple", 999, "Apple M2", "8GB unified", "256GB SSD", "8-core GPU"),
		laptop("hp-omen-16-2023", "HP Omen 16 2023", "HP", 1299, "Intel Core i7-13700HX", "16GB DDR5", "1TB SSD", "NVIDIA RTX 4060"),
		laptop("hp-pavilion-15-2022", "HP Pavilion 15 2022", "HP", 649, "AMD Ryzen 5 5625U", "8GB", "512GB SSD", "AMD Radeon Graphics"),
		laptop("acer-nitro-5-2022", "Acer Nitro 5 2022", "Acer", 799, "Intel Core i5-12500H", "16GB", "512GB SSD", "NVIDIA RTX 3050"),
		laptop("acer-aspire-5-2021", "Acer Aspire 5 2021", "Acer", 479, "Intel Core i5-1135G7", "8GB", "1TB HDD", "Intel Iris Xe"),
		laptop("msi-raider-ge78-2024", "MSI Raider GE78 HX 2024", "MSI", 2799, "Intel Core i9-14900HX", "32GB DDR5", "2TB SSD", "NVIDIA RTX 4080"),
		laptop("razer-blade-16-2024", "Razer Blade 16 2024", "Razer", 2999, "Intel Core i9-14900HX", "32GB DDR5", "1TB SSD", "NVIDIA RTX 4080"),
		laptop("microsoft-surface-7", "Microsoft Surface Laptop 7 2024", "Microsoft", 1199, "Snapdragon X Elite", "16GB", "512GB SSD", "Adreno GPU"),
	}
}
