package catalog

import "github.com/giygas/pharmly/entities"

// Seed returns the demo catalog used until the upstream inventory loads, and
// whenever it cannot be reached. A fresh slice is built on every call.
func Seed() []entities.MedicineRecord {
	return []entities.MedicineRecord{
		{ID: 1, Name: "Paracetamol 500mg", GenericName: "Acetaminophen", BrandName: "Calpol", Category: "Pain Relief", StockQuantity: 82, UnitPrice: 1.20},
		{ID: 2, Name: "Paracetamol 650mg", GenericName: "Acetaminophen", BrandName: "Dolo 650", Category: "Pain Relief", StockQuantity: 54, UnitPrice: 1.50},
		{ID: 3, Name: "Ibuprofen 400mg", GenericName: "Ibuprofen", BrandName: "Brufen", Category: "Pain Relief", StockQuantity: 45, UnitPrice: 2.10},
		{ID: 4, Name: "Amoxicillin 500mg", GenericName: "Amoxicillin", BrandName: "Amoxil", Category: "Antibiotic", StockQuantity: 18, UnitPrice: 4.80, PrescriptionRequired: true},
		{ID: 5, Name: "Amoxicillin 250mg", GenericName: "Amoxicillin", BrandName: "Trimox", Category: "Antibiotic", StockQuantity: 30, UnitPrice: 3.20, PrescriptionRequired: true},
		{ID: 6, Name: "Cetirizine 10mg", GenericName: "Cetirizine", BrandName: "Zyrtec", Category: "Antihistamine", StockQuantity: 67, UnitPrice: 1.80},
		{ID: 7, Name: "Metformin 500mg", GenericName: "Metformin", BrandName: "Glucophage", Category: "Diabetes", StockQuantity: 43, UnitPrice: 3.50, PrescriptionRequired: true},
		{ID: 8, Name: "Metformin 850mg", GenericName: "Metformin", BrandName: "Glucophage XR", Category: "Diabetes", StockQuantity: 29, UnitPrice: 4.20, PrescriptionRequired: true},
		{ID: 9, Name: "Lisinopril 10mg", GenericName: "Lisinopril", BrandName: "Zestril", Category: "Blood Pressure", StockQuantity: 22, UnitPrice: 5.10, PrescriptionRequired: true},
		{ID: 10, Name: "Aspirin 300mg", GenericName: "Acetylsalicylic acid", BrandName: "Disprin", Category: "Pain Relief", StockQuantity: 90, UnitPrice: 0.90},
		{ID: 11, Name: "Omeprazole 20mg", GenericName: "Omeprazole", BrandName: "Prilosec", Category: "Gastric", StockQuantity: 38, UnitPrice: 2.80},
		{ID: 12, Name: "Pantoprazole 40mg", GenericName: "Pantoprazole", BrandName: "Protonix", Category: "Gastric", StockQuantity: 25, UnitPrice: 3.60, PrescriptionRequired: true},
		{ID: 13, Name: "Azithromycin 500mg", GenericName: "Azithromycin", BrandName: "Zithromax", Category: "Antibiotic", StockQuantity: 15, UnitPrice: 6.20, PrescriptionRequired: true},
		{ID: 14, Name: "Atorvastatin 10mg", GenericName: "Atorvastatin", BrandName: "Lipitor", Category: "Cholesterol", StockQuantity: 34, UnitPrice: 4.50, PrescriptionRequired: true},
		{ID: 15, Name: "Simvastatin 20mg", GenericName: "Simvastatin", BrandName: "Zocor", Category: "Cholesterol", StockQuantity: 20, UnitPrice: 3.90, PrescriptionRequired: true},
		{ID: 16, Name: "Dextromethorphan Syrup", GenericName: "DXM", BrandName: "Robitussin", Category: "Cold & Flu", StockQuantity: 12, UnitPrice: 2.20},
		{ID: 17, Name: "Loratadine 10mg", GenericName: "Loratadine", BrandName: "Claritin", Category: "Antihistamine", StockQuantity: 55, UnitPrice: 1.60},
		{ID: 18, Name: "Salbutamol Inhaler", GenericName: "Salbutamol", BrandName: "Ventolin", Category: "Respiratory", StockQuantity: 8, UnitPrice: 12.00, PrescriptionRequired: true},
		{ID: 19, Name: "Tramadol 50mg", GenericName: "Tramadol", BrandName: "Ultram", Category: "Pain Relief", StockQuantity: 6, UnitPrice: 8.50, PrescriptionRequired: true},
		{ID: 20, Name: "Warfarin 5mg", GenericName: "Warfarin", BrandName: "Coumadin", Category: "Blood Thinner", StockQuantity: 11, UnitPrice: 7.20, PrescriptionRequired: true},
		{ID: 21, Name: "Diclofenac 50mg", GenericName: "Diclofenac", BrandName: "Voltaren", Category: "Pain Relief", StockQuantity: 41, UnitPrice: 2.30},
		{ID: 22, Name: "Melatonin 5mg", GenericName: "Melatonin", BrandName: "SleepTabs", Category: "Sleep", StockQuantity: 48, UnitPrice: 3.10},
	}
}
