package record

// detailFieldGroups is the REDCap export catalogue for a case, grouped by
// the instrument each field belongs to.
var detailFieldGroups = []fieldGroup{
	{
		Group: GroupIdentifiers,
		Names: []string{
			"DELIVERY_DATE", "mg_idpreg", "redcap_repeat_instrument", "redcap_repeat_instance",
		},
	},
	{
		Group: GroupMaternal,
		Names: []string{
			"mg_idpreg_sp", "mg_mra_done", "mg_ltfu", "mg_ltfu_why", "mg_ltfu_why_sp",
			"mg_dob", "mg_race_aian", "mg_race_asian", "mg_race_baa", "mg_race_mena",
			"mg_race_nhopi", "mg_race_wh", "mg_race_oth", "mg_ethn", "mg_edu", "mg_zip",
			"mg_co", "mg_tract", "mg_ht", "mg_ppwt", "mg_dewt", "mg_ppcon_diabetes",
			"mg_cron_htn", "mg_sub_alc", "mg_sub_tobacco", "mg_gravidity", "mg_parity",
			"mg_lmp", "mg_edd", "mg_pn", "mg_pn_dt", "mg_pn_num", "mg_pregcon_diabetes",
			"mg_pregcon_eclamphtn", "mg_pregcon_fgr", "mg_hosp_yn", "mg_death", "mg_death_dt",
			"mg_death_dx", "mg_insur", "mg_plurality_de", "mg_decon_icu", "mg_decon_icuadm_dt",
			"mc_yn", "mc_idnndss", "mc_drugs", "mc_sub_mj", "mc_sub_op_rx", "mc_sub_op_il",
			"mc_sub_op_moud", "mc_sub_meth", "mc_sub_coc", "mc_sub_oth", "mc_sub_oth_sp",
			"mc_jail", "mc_homeless", "mc_dpdx", "mc_dpdx_dt", "mc_tx", "mc_hiv", "mc_hbv",
			"mc_chol", "mc_chol_dt", "mc_test_amnio", "mc_fetalmonitor", "mc_de_h",
			"mc_de_prolong", "mc_laceration", "mg_notes", "pregnant_person_form_complete",
		},
	},
	{
		Group: GroupBirth,
		Names: []string{
			"bg_idbaby", "bg_mra_done", "bg_ltfu", "bg_ltfu_why", "bg_ltfu_why_sp",
			"bg_detype", "bg_outcome", "bg_outcome_dt", "bg_birvol", "bg_ga_w", "bg_ga_d",
			"bg_sex", "bg_exm_yn", "bg_exm_gen", "bg_exm_gen_sp", "bg_exm_heent", "bg_exm_heent_sp",
			"bg_exm_cardio", "bg_exm_cardio_sp", "bg_exm_lung", "bg_exm_lung_sp", "bg_exm_abd",
			"bg_exm_abd_sp", "bg_exm_gu", "bg_exm_gu_sp", "bg_exm_muske", "bg_exm_muske_sp",
			"bg_exm_neuro", "bg_exm_neuro_sp", "bg_exm_skin", "bg_exm_skin_sp", "bg_exm_sp",
			"bg_lt", "bg_wt", "bg_hc", "bg_bstfed", "bg_dis_dt", "bg_dischargecare",
			"bg_dischargecare_sp", "bg_cps", "bg_death", "bg_death_dt", "bg_death_dx",
			"bg_icu", "bg_icudis_dt", "bg_hear_oae", "bg_hear_abr", "bg_hear_unk",
			"bc_idnndss", "bc_nas", "bg_notes", "pregnancy_outcomes_and_birth_form_complete",
		},
	},
	{
		Group: GroupInfantFollowUp,
		Names: []string{
			"ig_idbaby", "ig_mra_done", "ig_ltfu", "ig_ltfu_why", "ig_ltfu_why_sp",
			"ig_death", "ig_death_dt", "ig_death_dx", "ig_livingwith", "ig_livingwith_sp",
			"ig_cps", "ig_visit_dt", "ig_exm_yn", "ig_exm_gen", "ig_exm_gen_sp", "ig_exm_heent",
			"ig_exm_heent_sp", "ig_exm_cardio", "ig_exm_cardio_sp", "ig_exm_lung",
			"ig_exm_lung_sp", "ig_exm_abd", "ig_exm_abd_sp", "ig_exm_gu", "ig_exm_gu_sp",
			"ig_exm_muske", "ig_exm_muske_sp", "ig_exm_neuro", "ig_exm_neuro_sp", "ig_exm_skin",
			"ig_exm_skin_sp", "ig_exm_sp", "ig_lt", "ig_wt", "ig_hc", "ig_bstfed",
			"ig_ref_ei", "ig_ref_pt", "ig_ref_ot", "ig_ref_slp", "ig_ref_opth", "ig_ref_audio",
			"ig_ref_dev", "ig_ref_med", "ig_ref_oth", "ig_ref_med_sp", "ig_ref_oth_sp",
			"ig_opth", "ig_opth_dt", "ig_opth_res", "ig_opth_sp", "ig_audio", "ig_audio_dt",
			"ig_audio_res", "ig_audio_chl", "ig_audio_snhl", "ig_audio_ansd", "ig_audio_oth",
			"ig_audio_oth_sp", "ic_liver", "ic_liver_dx", "ic_liver_dt", "ic_tx", "ig_notes",
			"infant_follow_up_form_complete", "abs_who_ifu", "ifu_fac_name", "ifu_fac_phone",
			"ifu_fac_city", "ifu_fac_num", "ifu_varify_who", "ifu_fac_notes", "request_ifu",
			"req_date_ifu", "req_ifu_days", "request2_ifu", "req2_date_ifu", "req2_ifu_days",
			"ifu_record", "mr_ifu_rec_date", "request_ifu_2", "req_date_ifu_2", "req_ifu_days_2",
			"request2_ifu_2", "req2_date_ifu_2", "req2_ifu_days_2", "ifu_record_2",
			"mr_ifu_rec_date_2", "ifu_requester_notes", "file_upload_v2", "file_upload_2_v2",
			"file_upload_3_v2", "file_upload_4_v2", "case_assignment_ifu", "chart_abs_complete_ifu",
			"chart_abs_complete_ifu_2", "issue_rec_type_ifu___1", "issue_rec_type_ifu___2",
			"char_ab_issue_yn_ifu", "chart_ab_issue_txt_ifu", "rd_request_ifu_dt",
			"rd_req_days_ifu", "char_ab_issue_res_ifu", "char_ab_issue_res_ifu_ab",
			"ifu_bg_complete",
		},
	},
	{
		Group: GroupClinical,
		Names: []string{
			"dg_idbaby", "dg_encount_dt", "dc_diag_timepoint", "dg_icd_code", "dg_macdp_code",
			"dg_diag_sp", "diagnosis_code_form_complete", "tc_idbaby", "tc_level",
			"tc_type", "tc_type_sp", "tc_st_dt", "tc_end_dt", "tc_dose_sp", "treatment_form_complete",
			"lc_prg_test", "lc_prg_dt", "lc_prg_resinterp", "lc_prg_quant", "lc_prg_quant_unit",
			"lc_prg_quant_unit_sp", "lc_prg_quant_ll", "lc_prg_naat_geno", "lc_prg_snomed",
			"lc_prg_loinc", "p_lab_rpt_local_id", "lc_prg_notes", "pregnant_person_laboratory_form_complete",
			"lc_inf_idbaby", "lc_inf_test", "lc_inf_dt", "lc_inf_resinterp", "lc_inf_quant",
			"lc_inf_quant_unit", "lc_inf_quant_unit_sp", "lc_inf_quant_ll", "lc_inf_quant_ul",
			"lc_inf_snomed", "lc_inf_loinc", "i_lab_rpt_local_id", "lc_inf_notes",
			"infant_laboratory_form_complete",
		},
	},
	{
		Group: GroupHospital,
		Names: []string{
			"dr_idbaby", "hos_name", "hos_name_cat", "bc_birthplacename", "hospital_address",
			"bc_birthplace_city_state", "bc_dattendant", "hospital_phone_num", "hospital_fax_num",
			"hospital_mr", "hospital_mr_vr", "phys_name", "physician_phone_num", "physician_fax_num",
			"physician_address", "ped_notes", "hospital_and_pediatrician_information_complete",
		},
	},
	{
		Group: GroupPregnantPerson,
		Names: []string{
			"year_cert_no", "mom_nbs_id", "con_inv_local_id", "bc_momnamefirst", "bc_momnamemiddle",
			"bc_momnamelast", "bc_momnamemaidenlast", "bc_mom_dob", "bc_momssn", "inf_dob_mom_tr",
			"mom_death_ind", "mom_dod_cert_num", "mom_ddod", "mom_dcause", "con_inv_case_status",
			"mom_demo_notes", "pregnant_person_information_complete",
		},
	},
	{
		Group: GroupInfant,
		Names: []string{
			"id_idbaby", "inf_dem_bc_number", "infant_nbs_id", "pinv_inv_local_id",
			"bc_childnamefirst", "bc_childnamemiddle", "bc_childnamelast", "dob_inf",
			"bc_sex", "bc_childssn", "inf_death_ind", "dcertnum", "ddod", "dcause",
			"pinv_inv_case_status", "inf_demo_notes", "infant_information_complete",
		},
	},
	{
		Group: GroupRecordsRequest,
		Names: []string{
			"mr_req_for", "hos_name_cat_2", "year_of_birth", "mr_emr", "emr_used",
			"emr_notes", "mr_emg_all", "mr_emr_needs___1", "mr_emr_needs___2", "mr_emr_needs___3",
			"mr_emr_needs___4", "mr_emr_needs___6", "mr_emr_needs___7", "mr_emr_needs___8",
			"mr_emr_needs___9", "mr_emr_needs___10", "mr_emr_needs___11", "mr_emr_needs___12",
			"mr_emr_needs___13", "mr_emr_needs___14", "mr_emr_needs___15", "mr_emr_needs___88",
			"mr_emr_needs_oth", "mr_emr_needs_inf___1", "mr_emr_needs_inf___2", "mr_emr_needs_inf___3",
			"mr_emr_needs_inf___4", "mr_emr_needs_inf___5", "mr_emr_needs_inf___6",
			"mr_emr_needs_inf___7", "mr_emr_needs_inf___8", "mr_emr_needs_inf___9",
			"mr_emr_needs_inf___10", "mr_emr_needs_inf___11", "mr_emr_needs_inf___12",
			"mr_emr_needs_inf___13", "mr_emr_needs_inf___88", "mr_emr_needs_oth_inf",
			"mr_request", "mr_request_dt", "mr_request_days", "mr_received", "record_rec_via",
			"mr_rec_all", "mr_rec_needs___1", "mr_rec_needs___2", "mr_rec_needs___3",
			"mr_rec_needs___4", "mr_rec_needs___5", "mr_rec_needs___6", "mr_rec_needs___7",
			"mr_rec_needs___8", "mr_rec_needs___9", "mr_rec_needs___10", "mr_rec_needs___11",
			"mr_rec_needs___12", "mr_rec_needs___13", "mr_rec_needs___14", "mr_rec_needs___15",
			"mr_rec_needs___88", "mr_needs_oth", "mr_rec_needs_inf___1", "mr_rec_needs_inf___2",
			"mr_rec_needs_inf___3", "mr_rec_needs_inf___4", "mr_rec_needs_inf___5",
			"mr_rec_needs_inf___6", "mr_rec_needs_inf___7", "mr_rec_needs_inf___8",
			"mr_rec_needs_inf___9", "mr_rec_needs_inf___10", "mr_rec_needs_inf___11",
			"mr_rec_needs_inf___12", "mr_rec_needs_inf___13", "mr_rec_needs_inf___88",
			"mr_needs_oth_inf", "attestation", "mr_request_2", "mr_request_dt_2", "mr_request_days_2",
			"mr_received_2", "record_rec_via_2", "mr_rec_all_2", "mr_rec_needs_2___1",
			"mr_rec_needs_2___2", "mr_rec_needs_2___3", "mr_rec_needs_2___4", "mr_rec_needs_2___6",
			"mr_rec_needs_2___7", "mr_rec_needs_2___8", "mr_rec_needs_2___9", "mr_rec_needs_2___10",
			"mr_rec_needs_2___11", "mr_rec_needs_2___12", "mr_rec_needs_2___13", "mr_rec_needs_2___14",
			"mr_rec_needs_2___15", "mr_rec_needs_2___88", "mr_needs_oth_2", "mr_rec_needs_inf_2___1",
			"mr_rec_needs_inf_2___2", "mr_rec_needs_inf_2___3", "mr_rec_needs_inf_2___4",
			"mr_rec_needs_inf_2___5", "mr_rec_needs_inf_2___6", "mr_rec_needs_inf_2___7",
			"mr_rec_needs_inf_2___8", "mr_rec_needs_inf_2___9", "mr_rec_needs_inf_2___10",
			"mr_rec_needs_inf_2___11", "mr_rec_needs_inf_2___12", "mr_rec_needs_inf_2___13",
			"mr_rec_needs_inf_2___88", "mr_needs_oth_inf_2", "ltfu", "mra_pass", "mr_upload",
			"mr_upload_2", "mr_upload_3", "mr_upload_4", "mr_upload_5", "medical_records_request_for_pregnancy_and_birth_complete",
		},
	},
}
